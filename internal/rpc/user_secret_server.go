package rpc

import (
	"context"

	"google.golang.org/grpc"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
	"github.com/systmms/secretcore/internal/service"
)

type UserSecretServiceServer interface {
	Create(ctx context.Context, req *CreateUserSecretRequest) (*UserSecretResponse, error)
	Get(ctx context.Context, req *GetUserSecretRequest) (*UserSecretResponse, error)
	GetData(ctx context.Context, req *GetUserSecretRequest) (*GetUserSecretDataResponse, error)
	Update(ctx context.Context, req *UpdateUserSecretRequest) (*UserSecretResponse, error)
	UpdateData(ctx context.Context, req *UpdateUserSecretDataRequest) (*UserSecretResponse, error)
	Delete(ctx context.Context, req *DeleteUserSecretRequest) (*DeleteUserSecretResponse, error)
	List(ctx context.Context, req *ListUserSecretsRequest) (*ListUserSecretsResponse, error)
	Stat(ctx context.Context, req *StatUserSecretsRequest) (*StatUserSecretsResponse, error)
}

type UserSecretServer struct {
	svc *service.UserSecretService
}

func NewUserSecretServer(svc *service.UserSecretService) *UserSecretServer {
	return &UserSecretServer{svc: svc}
}

func (s *UserSecretServer) Create(ctx context.Context, req *CreateUserSecretRequest) (*UserSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	rec, err := s.svc.Create(ctx, caller, service.CreateUserSecretInput{
		Name:      req.Name,
		SchemaID:  req.SchemaID,
		Tags:      req.Tags,
		Data:      req.Data,
		Encrypted: req.Encrypted,
	})
	if err != nil {
		return nil, err
	}
	return &UserSecretResponse{UserSecret: rec}, nil
}

func (s *UserSecretServer) Get(ctx context.Context, req *GetUserSecretRequest) (*UserSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	rec, err := s.svc.Get(ctx, caller, req.UserSecretID)
	if err != nil {
		return nil, err
	}
	return &UserSecretResponse{UserSecret: rec}, nil
}

func (s *UserSecretServer) GetData(ctx context.Context, req *GetUserSecretRequest) (*GetUserSecretDataResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	bundle, err := s.svc.GetData(ctx, caller, req.UserSecretID)
	if err != nil {
		return nil, err
	}
	return &GetUserSecretDataResponse{Bundle: bundle}, nil
}

func (s *UserSecretServer) Update(ctx context.Context, req *UpdateUserSecretRequest) (*UserSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.Update(ctx, caller, req.UserSecretID, model.Patch(req.Patch)); err != nil {
		return nil, err
	}
	rec, err := s.svc.Get(ctx, caller, req.UserSecretID)
	if err != nil {
		return nil, err
	}
	return &UserSecretResponse{UserSecret: rec}, nil
}

func (s *UserSecretServer) UpdateData(ctx context.Context, req *UpdateUserSecretDataRequest) (*UserSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.UpdateData(ctx, caller, req.UserSecretID, service.CreateUserSecretInput{Data: req.Data, Encrypted: req.Encrypted}); err != nil {
		return nil, err
	}
	rec, err := s.svc.Get(ctx, caller, req.UserSecretID)
	if err != nil {
		return nil, err
	}
	return &UserSecretResponse{UserSecret: rec}, nil
}

func (s *UserSecretServer) Delete(ctx context.Context, req *DeleteUserSecretRequest) (*DeleteUserSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.Delete(ctx, caller, req.UserSecretID); err != nil {
		return nil, err
	}
	return &DeleteUserSecretResponse{}, nil
}

func (s *UserSecretServer) List(ctx context.Context, req *ListUserSecretsRequest) (*ListUserSecretsResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	secrets, err := s.svc.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &ListUserSecretsResponse{UserSecrets: secrets}, nil
}

func (s *UserSecretServer) Stat(ctx context.Context, req *StatUserSecretsRequest) (*StatUserSecretsResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	stat, err := s.svc.Stat(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &StatUserSecretsResponse{Secrets: stat.Secrets, TrustedSecrets: stat.TrustedSecrets, UserSecrets: stat.UserSecrets}, nil
}

var userSecretServiceDesc = grpc.ServiceDesc{
	ServiceName: "secretcore.v1.UserSecretService",
	HandlerType: (*UserSecretServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: userSecretCreateHandler},
		{MethodName: "Get", Handler: userSecretGetHandler},
		{MethodName: "GetData", Handler: userSecretGetDataHandler},
		{MethodName: "Update", Handler: userSecretUpdateHandler},
		{MethodName: "UpdateData", Handler: userSecretUpdateDataHandler},
		{MethodName: "Delete", Handler: userSecretDeleteHandler},
		{MethodName: "List", Handler: userSecretListHandler},
		{MethodName: "Stat", Handler: userSecretStatHandler},
	},
}

func userSecretCreateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateUserSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/Create"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).Create(ctx, req.(*CreateUserSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretGetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetUserSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/Get"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).Get(ctx, req.(*GetUserSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretGetDataHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetUserSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).GetData(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/GetData"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).GetData(ctx, req.(*GetUserSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretUpdateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateUserSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/Update"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).Update(ctx, req.(*UpdateUserSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretUpdateDataHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateUserSecretDataRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).UpdateData(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/UpdateData"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).UpdateData(ctx, req.(*UpdateUserSecretDataRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretDeleteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteUserSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/Delete"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).Delete(ctx, req.(*DeleteUserSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretListHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListUserSecretsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/List"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).List(ctx, req.(*ListUserSecretsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func userSecretStatHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatUserSecretsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserSecretServiceServer).Stat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.UserSecretService/Stat"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserSecretServiceServer).Stat(ctx, req.(*StatUserSecretsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterUserSecretServiceServer registers srv on grpcServer.
func RegisterUserSecretServiceServer(grpcServer *grpc.Server, srv UserSecretServiceServer) {
	grpcServer.RegisterService(&userSecretServiceDesc, srv)
}
