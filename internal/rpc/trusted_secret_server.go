package rpc

import (
	"context"

	"google.golang.org/grpc"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
	"github.com/systmms/secretcore/internal/service"
)

type TrustedSecretServiceServer interface {
	Create(ctx context.Context, req *CreateTrustedSecretRequest) (*TrustedSecretResponse, error)
	Get(ctx context.Context, req *GetTrustedSecretRequest) (*TrustedSecretResponse, error)
	Update(ctx context.Context, req *UpdateTrustedSecretRequest) (*TrustedSecretResponse, error)
	Delete(ctx context.Context, req *DeleteTrustedSecretRequest) (*DeleteTrustedSecretResponse, error)
	List(ctx context.Context, req *ListTrustedSecretsRequest) (*ListTrustedSecretsResponse, error)
	Stat(ctx context.Context, req *StatTrustedSecretsRequest) (*StatTrustedSecretsResponse, error)
}

type TrustedSecretServer struct {
	svc *service.TrustedSecretService
}

func NewTrustedSecretServer(svc *service.TrustedSecretService) *TrustedSecretServer {
	return &TrustedSecretServer{svc: svc}
}

func (s *TrustedSecretServer) Create(ctx context.Context, req *CreateTrustedSecretRequest) (*TrustedSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	rec, err := s.svc.Create(ctx, caller, service.CreateTrustedSecretInput{
		Name:             req.Name,
		SchemaID:         req.SchemaID,
		Provider:         req.Provider,
		Tags:             req.Tags,
		Data:             req.Data,
		Encrypted:        req.Encrypted,
		TrustedAccountID: req.TrustedAccountID,
		ResourceGroup:    model.ResourceGroup(req.ResourceGroup),
	})
	if err != nil {
		return nil, err
	}
	return &TrustedSecretResponse{TrustedSecret: rec}, nil
}

func (s *TrustedSecretServer) Get(ctx context.Context, req *GetTrustedSecretRequest) (*TrustedSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	rec, err := s.svc.Get(ctx, caller, req.TrustedSecretID)
	if err != nil {
		return nil, err
	}
	return &TrustedSecretResponse{TrustedSecret: rec}, nil
}

func (s *TrustedSecretServer) Update(ctx context.Context, req *UpdateTrustedSecretRequest) (*TrustedSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.Update(ctx, caller, req.TrustedSecretID, model.Patch(req.Patch)); err != nil {
		return nil, err
	}
	rec, err := s.svc.Get(ctx, caller, req.TrustedSecretID)
	if err != nil {
		return nil, err
	}
	return &TrustedSecretResponse{TrustedSecret: rec}, nil
}

func (s *TrustedSecretServer) Delete(ctx context.Context, req *DeleteTrustedSecretRequest) (*DeleteTrustedSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.Delete(ctx, caller, req.TrustedSecretID); err != nil {
		return nil, err
	}
	return &DeleteTrustedSecretResponse{}, nil
}

func (s *TrustedSecretServer) List(ctx context.Context, req *ListTrustedSecretsRequest) (*ListTrustedSecretsResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	secrets, err := s.svc.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &ListTrustedSecretsResponse{TrustedSecrets: secrets}, nil
}

func (s *TrustedSecretServer) Stat(ctx context.Context, req *StatTrustedSecretsRequest) (*StatTrustedSecretsResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	stat, err := s.svc.Stat(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &StatTrustedSecretsResponse{Secrets: stat.Secrets, TrustedSecrets: stat.TrustedSecrets, UserSecrets: stat.UserSecrets}, nil
}

var trustedSecretServiceDesc = grpc.ServiceDesc{
	ServiceName: "secretcore.v1.TrustedSecretService",
	HandlerType: (*TrustedSecretServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: trustedSecretCreateHandler},
		{MethodName: "Get", Handler: trustedSecretGetHandler},
		{MethodName: "Update", Handler: trustedSecretUpdateHandler},
		{MethodName: "Delete", Handler: trustedSecretDeleteHandler},
		{MethodName: "List", Handler: trustedSecretListHandler},
		{MethodName: "Stat", Handler: trustedSecretStatHandler},
	},
}

func trustedSecretCreateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateTrustedSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TrustedSecretServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.TrustedSecretService/Create"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TrustedSecretServiceServer).Create(ctx, req.(*CreateTrustedSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func trustedSecretGetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTrustedSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TrustedSecretServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.TrustedSecretService/Get"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TrustedSecretServiceServer).Get(ctx, req.(*GetTrustedSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func trustedSecretUpdateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateTrustedSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TrustedSecretServiceServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.TrustedSecretService/Update"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TrustedSecretServiceServer).Update(ctx, req.(*UpdateTrustedSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func trustedSecretDeleteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteTrustedSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TrustedSecretServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.TrustedSecretService/Delete"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TrustedSecretServiceServer).Delete(ctx, req.(*DeleteTrustedSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func trustedSecretListHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListTrustedSecretsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TrustedSecretServiceServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.TrustedSecretService/List"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TrustedSecretServiceServer).List(ctx, req.(*ListTrustedSecretsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func trustedSecretStatHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatTrustedSecretsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TrustedSecretServiceServer).Stat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.TrustedSecretService/Stat"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TrustedSecretServiceServer).Stat(ctx, req.(*StatTrustedSecretsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterTrustedSecretServiceServer registers srv on grpcServer.
func RegisterTrustedSecretServiceServer(grpcServer *grpc.Server, srv TrustedSecretServiceServer) {
	grpcServer.RegisterService(&trustedSecretServiceDesc, srv)
}
