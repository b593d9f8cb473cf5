// Package v1 declares the rideanalytics.v1.Dashboard gRPC service. Requests and
// responses are protobuf well-known types so no generated message code is needed.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "rideanalytics.v1.Dashboard"

	Dashboard_GetFilterDomain_FullMethodName = "/rideanalytics.v1.Dashboard/GetFilterDomain"
	Dashboard_Render_FullMethodName          = "/rideanalytics.v1.Dashboard/Render"
	Dashboard_ListBookings_FullMethodName    = "/rideanalytics.v1.Dashboard/ListBookings"
)

// DashboardServer is the server API for the Dashboard service.
type DashboardServer interface {
	GetFilterDomain(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Render(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedDashboardServer()
}

// UnimplementedDashboardServer must be embedded to have forward compatible implementations.
type UnimplementedDashboardServer struct{}

func (UnimplementedDashboardServer) GetFilterDomain(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetFilterDomain not implemented")
}

func (UnimplementedDashboardServer) Render(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Render not implemented")
}

func (UnimplementedDashboardServer) ListBookings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListBookings not implemented")
}

func (UnimplementedDashboardServer) mustEmbedUnimplementedDashboardServer() {}

func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&Dashboard_ServiceDesc, srv)
}

func _Dashboard_GetFilterDomain_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).GetFilterDomain(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Dashboard_GetFilterDomain_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).GetFilterDomain(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Dashboard_Render_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Render(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Dashboard_Render_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).Render(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Dashboard_ListBookings_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).ListBookings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Dashboard_ListBookings_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).ListBookings(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Dashboard_ServiceDesc is the grpc.ServiceDesc for the Dashboard service.
var Dashboard_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetFilterDomain", Handler: _Dashboard_GetFilterDomain_Handler},
		{MethodName: "Render", Handler: _Dashboard_Render_Handler},
		{MethodName: "ListBookings", Handler: _Dashboard_ListBookings_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rideanalytics/v1/dashboard.proto",
}

// DashboardClient is the client API for the Dashboard service.
type DashboardClient interface {
	GetFilterDomain(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Render(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListBookings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type dashboardClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardClient(cc grpc.ClientConnInterface) DashboardClient {
	return &dashboardClient{cc}
}

func (c *dashboardClient) GetFilterDomain(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Dashboard_GetFilterDomain_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardClient) Render(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Dashboard_Render_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardClient) ListBookings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Dashboard_ListBookings_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
