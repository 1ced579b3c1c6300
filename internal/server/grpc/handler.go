package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/api"
	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	acc, err := s.users.Register(ctx,
		api.StringField(req, api.FieldUsername),
		api.StringField(req, api.FieldPassword),
		models.Role(api.StringField(req, api.FieldRole)))
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", acc.UserName)
	return newStruct(accountFields(acc))
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	token, err := s.users.Login(ctx, api.StringField(req, api.FieldUsername), api.StringField(req, api.FieldPassword))
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(map[string]any{
		api.FieldAccessToken: token,
		api.FieldTokenType:   api.TokenTypeBearer,
		api.FieldExpiresIn:   s.users.TokenTTL().Seconds(),
	})
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrUnauthenticated)
	}

	return newStruct(map[string]any{
		api.FieldID:       p.AccountID,
		api.FieldUsername: p.UserName,
		api.FieldRole:     p.Role.String(),
	})
}

func (s *GRPCServer) ListProjects(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	p, _ := auth.PrincipalFromContext(ctx)
	items, err := s.projects.List(ctx, p)
	if err != nil {
		return nil, toStatus(err)
	}

	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, projectFields(item))
	}
	return newStruct(map[string]any{api.FieldProjects: list})
}

func (s *GRPCServer) CreateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	p, _ := auth.PrincipalFromContext(ctx)
	project, err := s.projects.Create(ctx, p, api.StringField(req, api.FieldName), api.StringField(req, api.FieldDescription))
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(projectFields(project))
}

func (s *GRPCServer) DeleteProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	p, _ := auth.PrincipalFromContext(ctx)
	if err := s.projects.Delete(ctx, p, api.StringField(req, api.FieldID)); err != nil {
		return nil, toStatus(err)
	}

	return &structpb.Struct{}, nil
}

func (s *GRPCServer) SetRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	p, _ := auth.PrincipalFromContext(ctx)
	acc, err := s.users.SetRole(ctx, p, api.StringField(req, api.FieldUsername), models.Role(api.StringField(req, api.FieldRole)))
	if err != nil {
		return nil, toStatus(err)
	}

	return newStruct(accountFields(acc))
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	p, _ := auth.PrincipalFromContext(ctx)
	if err := s.users.DeleteAccount(ctx, p, api.StringField(req, api.FieldUsername)); err != nil {
		return nil, toStatus(err)
	}

	return &structpb.Struct{}, nil
}

func accountFields(a *models.PublicAccount) map[string]any {
	return map[string]any{
		api.FieldID:       a.ID,
		api.FieldUsername: a.UserName,
		api.FieldRole:     a.Role.String(),
	}
}

func projectFields(p *models.Project) map[string]any {
	return map[string]any{
		api.FieldID:          p.ID,
		api.FieldName:        p.Name,
		api.FieldDescription: p.Description,
		api.FieldCreatedBy:   p.CreatedBy,
		api.FieldCreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
	}
	return out, nil
}
