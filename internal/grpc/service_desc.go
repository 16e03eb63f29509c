package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "washroom.dashboard.v1.Dashboard"

// DashboardServer is the gateway surface. Requests and responses are
// JSON-shaped google.protobuf.Struct messages; ExportReport returns raw XLSX
// bytes.
type DashboardServer interface {
	Navigate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetHome(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ToggleNotifications(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetMonitor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SelectToiletType(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SendActionMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	QueryReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ExportReport(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error)
	ListActivity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(srv DashboardServer, ctx context.Context, req *structpb.Struct) (proto.Message, error)

func method(name string, call structCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DashboardServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DashboardServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns "/washroom.dashboard.v1.Dashboard/<name>".
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// ServiceDesc registers a DashboardServer on a grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		method("Navigate", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.Navigate(ctx, r)
		}),
		method("Login", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.Login(ctx, r)
		}),
		method("Register", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.Register(ctx, r)
		}),
		method("GetHome", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.GetHome(ctx, r)
		}),
		method("ToggleNotifications", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.ToggleNotifications(ctx, r)
		}),
		method("GetMonitor", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.GetMonitor(ctx, r)
		}),
		method("SelectToiletType", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.SelectToiletType(ctx, r)
		}),
		method("SendActionMessage", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.SendActionMessage(ctx, r)
		}),
		method("GetReport", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.GetReport(ctx, r)
		}),
		method("UpdateReport", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.UpdateReport(ctx, r)
		}),
		method("QueryReport", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.QueryReport(ctx, r)
		}),
		method("ExportReport", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.ExportReport(ctx, r)
		}),
		method("ListActivity", func(s DashboardServer, ctx context.Context, r *structpb.Struct) (proto.Message, error) {
			return s.ListActivity(ctx, r)
		}),
	},
	Streams: []grpc.StreamDesc{},
}
