package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/api"
	"github.com/dmitrijs2005/projectgate/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. A zero timeout disables
// per-call deadlines. Extra dial options are appended to the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// LoggedIn reports whether a token from Login is held.
func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

// Logout forgets the access token. The server keeps no session, so there
// is nothing to call.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

func (s *GRPCClient) Register(ctx context.Context, userName, password, role string) (*Account, error) {
	fields := map[string]any{api.FieldUsername: userName, api.FieldPassword: password}
	if role != "" {
		fields[api.FieldRole] = role
	}

	out, err := s.invoke(ctx, api.MethodRegister, fields)
	if err != nil {
		return nil, err
	}
	return toAccount(out), nil
}

// Login authenticates and keeps the returned token for later calls.
func (s *GRPCClient) Login(ctx context.Context, userName, password string) error {
	out, err := s.invoke(ctx, api.MethodLogin, map[string]any{api.FieldUsername: userName, api.FieldPassword: password})
	if err != nil {
		return err
	}

	token := api.StringField(out, api.FieldAccessToken)
	if token == "" {
		return fmt.Errorf("rpc error: empty access token")
	}
	s.setToken(token)
	return nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*Account, error) {
	out, err := s.invoke(ctx, api.MethodWhoAmI, nil)
	if err != nil {
		return nil, err
	}
	return toAccount(out), nil
}

func (s *GRPCClient) ListProjects(ctx context.Context) ([]*Project, error) {
	out, err := s.invoke(ctx, api.MethodListProjects, nil)
	if err != nil {
		return nil, err
	}

	values := out.GetFields()[api.FieldProjects].GetListValue().GetValues()
	result := make([]*Project, 0, len(values))
	for _, v := range values {
		result = append(result, toProject(v.GetStructValue()))
	}
	return result, nil
}

func (s *GRPCClient) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	out, err := s.invoke(ctx, api.MethodCreateProject, map[string]any{api.FieldName: name, api.FieldDescription: description})
	if err != nil {
		return nil, err
	}
	return toProject(out), nil
}

func (s *GRPCClient) DeleteProject(ctx context.Context, id string) error {
	_, err := s.invoke(ctx, api.MethodDeleteProject, map[string]any{api.FieldID: id})
	return err
}

func (s *GRPCClient) SetRole(ctx context.Context, userName, role string) (*Account, error) {
	out, err := s.invoke(ctx, api.MethodSetRole, map[string]any{api.FieldUsername: userName, api.FieldRole: role})
	if err != nil {
		return nil, err
	}
	return toAccount(out), nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, userName string) error {
	_, err := s.invoke(ctx, api.MethodDeleteAccount, map[string]any{api.FieldUsername: userName})
	return err
}

// Ping asks the server's health service whether ProjectGate is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := healthpb.NewHealthClient(s.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func toAccount(s *structpb.Struct) *Account {
	return &Account{
		ID:       api.StringField(s, api.FieldID),
		UserName: api.StringField(s, api.FieldUsername),
		Role:     api.StringField(s, api.FieldRole),
	}
}

func toProject(s *structpb.Struct) *Project {
	return &Project{
		ID:          api.StringField(s, api.FieldID),
		Name:        api.StringField(s, api.FieldName),
		Description: api.StringField(s, api.FieldDescription),
		CreatedBy:   api.StringField(s, api.FieldCreatedBy),
		CreatedAt:   api.StringField(s, api.FieldCreatedAt),
	}
}
