package rpc

import (
	"context"

	"google.golang.org/grpc"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
	"github.com/systmms/secretcore/internal/service"
)

// SecretServiceServer is the handler contract C10 registers for the Secret
// service; SecretServer below is the concrete implementation backed by C9.
type SecretServiceServer interface {
	Create(ctx context.Context, req *CreateSecretRequest) (*SecretResponse, error)
	Get(ctx context.Context, req *GetSecretRequest) (*SecretResponse, error)
	GetData(ctx context.Context, req *GetSecretRequest) (*GetSecretDataResponse, error)
	Update(ctx context.Context, req *UpdateSecretRequest) (*SecretResponse, error)
	UpdateData(ctx context.Context, req *UpdateSecretDataRequest) (*SecretResponse, error)
	Delete(ctx context.Context, req *DeleteSecretRequest) (*DeleteSecretResponse, error)
	List(ctx context.Context, req *ListSecretsRequest) (*ListSecretsResponse, error)
	Stat(ctx context.Context, req *StatSecretsRequest) (*StatSecretsResponse, error)
}

// SecretServer adapts *service.SecretService to SecretServiceServer,
// pulling the authenticated authority.Caller the auth interceptor placed on
// the context.
type SecretServer struct {
	svc *service.SecretService
}

func NewSecretServer(svc *service.SecretService) *SecretServer {
	return &SecretServer{svc: svc}
}

func (s *SecretServer) Create(ctx context.Context, req *CreateSecretRequest) (*SecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	rec, err := s.svc.Create(ctx, caller, service.CreateSecretInput{
		Name:            req.Name,
		SchemaID:        req.SchemaID,
		Provider:        req.Provider,
		Tags:            req.Tags,
		Data:            req.Data,
		Encrypted:       req.Encrypted,
		TrustedSecretID: req.TrustedSecretID,
		ResourceGroup:   model.ResourceGroup(req.ResourceGroup),
		ProjectID:       req.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	return &SecretResponse{Secret: rec}, nil
}

func (s *SecretServer) Get(ctx context.Context, req *GetSecretRequest) (*SecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	rec, err := s.svc.Get(ctx, caller, req.SecretID)
	if err != nil {
		return nil, err
	}
	return &SecretResponse{Secret: rec}, nil
}

func (s *SecretServer) GetData(ctx context.Context, req *GetSecretRequest) (*GetSecretDataResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	bundle, err := s.svc.GetData(ctx, caller, req.SecretID)
	if err != nil {
		return nil, err
	}
	return &GetSecretDataResponse{Bundle: bundle}, nil
}

func (s *SecretServer) Update(ctx context.Context, req *UpdateSecretRequest) (*SecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.Update(ctx, caller, req.SecretID, model.Patch(req.Patch)); err != nil {
		return nil, err
	}
	rec, err := s.svc.Get(ctx, caller, req.SecretID)
	if err != nil {
		return nil, err
	}
	return &SecretResponse{Secret: rec}, nil
}

func (s *SecretServer) UpdateData(ctx context.Context, req *UpdateSecretDataRequest) (*SecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.UpdateData(ctx, caller, req.SecretID, service.UpdateDataInput{Data: req.Data, Encrypted: req.Encrypted}); err != nil {
		return nil, err
	}
	rec, err := s.svc.Get(ctx, caller, req.SecretID)
	if err != nil {
		return nil, err
	}
	return &SecretResponse{Secret: rec}, nil
}

func (s *SecretServer) Delete(ctx context.Context, req *DeleteSecretRequest) (*DeleteSecretResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	if err := s.svc.Delete(ctx, caller, req.SecretID); err != nil {
		return nil, err
	}
	return &DeleteSecretResponse{}, nil
}

func (s *SecretServer) List(ctx context.Context, req *ListSecretsRequest) (*ListSecretsResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	secrets, err := s.svc.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &ListSecretsResponse{Secrets: secrets}, nil
}

func (s *SecretServer) Stat(ctx context.Context, req *StatSecretsRequest) (*StatSecretsResponse, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, dserrors.New(dserrors.KindPermissionDenied, "rpc", "no caller in context")
	}
	stat, err := s.svc.Stat(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &StatSecretsResponse{Secrets: stat.Secrets, TrustedSecrets: stat.TrustedSecrets, UserSecrets: stat.UserSecrets}, nil
}

// secretServiceDesc is the grpc.ServiceDesc for SecretService, authored the
// way protoc-gen-go-grpc would generate it — one grpc.MethodDesc per RPC,
// each decoding into the matching request struct via the forced jsonCodec.
var secretServiceDesc = grpc.ServiceDesc{
	ServiceName: "secretcore.v1.SecretService",
	HandlerType: (*SecretServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: secretCreateHandler},
		{MethodName: "Get", Handler: secretGetHandler},
		{MethodName: "GetData", Handler: secretGetDataHandler},
		{MethodName: "Update", Handler: secretUpdateHandler},
		{MethodName: "UpdateData", Handler: secretUpdateDataHandler},
		{MethodName: "Delete", Handler: secretDeleteHandler},
		{MethodName: "List", Handler: secretListHandler},
		{MethodName: "Stat", Handler: secretStatHandler},
	},
}

func secretCreateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/Create"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).Create(ctx, req.(*CreateSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretGetHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/Get"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).Get(ctx, req.(*GetSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretGetDataHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).GetData(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/GetData"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).GetData(ctx, req.(*GetSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretUpdateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/Update"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).Update(ctx, req.(*UpdateSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretUpdateDataHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdateSecretDataRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).UpdateData(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/UpdateData"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).UpdateData(ctx, req.(*UpdateSecretDataRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretDeleteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeleteSecretRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/Delete"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).Delete(ctx, req.(*DeleteSecretRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretListHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListSecretsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/List"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).List(ctx, req.(*ListSecretsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func secretStatHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatSecretsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SecretServiceServer).Stat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/secretcore.v1.SecretService/Stat"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SecretServiceServer).Stat(ctx, req.(*StatSecretsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterSecretServiceServer registers srv on grpcServer the way generated
// code's RegisterSecretServiceServer would.
func RegisterSecretServiceServer(grpcServer *grpc.Server, srv SecretServiceServer) {
	grpcServer.RegisterService(&secretServiceDesc, srv)
}
