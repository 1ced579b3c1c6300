// Package api declares the ProjectGate gRPC contract shared by the server
// and the client: the service descriptor, full method names and the field
// names of the structpb payloads exchanged on each call.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "projectgate.v1.ProjectGate"

// Full method names as seen by interceptors.
const (
	MethodRegister      = "/" + ServiceName + "/Register"
	MethodLogin         = "/" + ServiceName + "/Login"
	MethodWhoAmI        = "/" + ServiceName + "/WhoAmI"
	MethodListProjects  = "/" + ServiceName + "/ListProjects"
	MethodCreateProject = "/" + ServiceName + "/CreateProject"
	MethodDeleteProject = "/" + ServiceName + "/DeleteProject"
	MethodSetRole       = "/" + ServiceName + "/SetRole"
	MethodDeleteAccount = "/" + ServiceName + "/DeleteAccount"
)

// Payload field names.
const (
	FieldID          = "id"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldRole        = "role"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldProjects    = "projects"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCreatedBy   = "created_by"
	FieldCreatedAt   = "created_at"
)

// TokenTypeBearer is returned in token_type by Login.
const TokenTypeBearer = "bearer"

// ProjectGateServer is implemented by the server. Every method takes and
// returns a structpb.Struct whose fields are named by the Field constants.
type ProjectGateServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WhoAmI(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProjects(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateProject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProject(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRole(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(ProjectGateServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProjectGateServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProjectGateServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes ProjectGate for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProjectGateServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", ProjectGateServer.Register),
		unary("Login", ProjectGateServer.Login),
		unary("WhoAmI", ProjectGateServer.WhoAmI),
		unary("ListProjects", ProjectGateServer.ListProjects),
		unary("CreateProject", ProjectGateServer.CreateProject),
		unary("DeleteProject", ProjectGateServer.DeleteProject),
		unary("SetRole", ProjectGateServer.SetRole),
		unary("DeleteAccount", ProjectGateServer.DeleteAccount),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "projectgate/v1/projectgate.proto",
}

// RegisterProjectGateServer registers srv on s.
func RegisterProjectGateServer(s grpc.ServiceRegistrar, srv ProjectGateServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// StringField returns the string value of key in s, or "" when absent or
// not a string.
func StringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
