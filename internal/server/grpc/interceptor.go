package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/api"
	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods are the ProjectGate calls that need no bearer token.
var publicMethods = map[string]struct{}{
	api.MethodRegister: {},
	api.MethodLogin:    {},
}

func requiresPrincipal(fullMethod string) bool {
	if !strings.HasPrefix(fullMethod, "/"+api.ServiceName+"/") {
		return false
	}
	_, public := publicMethods[fullMethod]
	return !public
}

// bearerToken returns the token from the authorization metadata, or "" if
// the header is absent or does not use the Bearer scheme.
func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	v := values[0]
	if len(v) < len(common.BearerPrefix) || !strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(common.BearerPrefix):])
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if requiresPrincipal(info.FullMethod) {

		token := bearerToken(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, common.ErrUnauthenticated.Error())
		}

		p, err := s.resolver.Resolve(ctx, token)
		if err != nil {
			if !errors.Is(err, common.ErrUnauthenticated) {
				s.logger.Error(ctx, "principal resolution failed", "error", err)
			}
			return nil, toStatus(err)
		}

		ctx = auth.WithPrincipal(ctx, p)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Warn(ctx, "request failed", args...)
	} else {
		s.logger.Debug(ctx, "request", args...)
	}
	return resp, err
}
