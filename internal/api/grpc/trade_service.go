package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const TradeServiceName = "swapcircle.v1.TradeService"

// TradeServiceServer is the server API for swapcircle.v1.TradeService. Every
// request and response is a google.protobuf.Struct document.
type TradeServiceServer interface {
	RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ProposeTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMessages(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedTradeServiceServer can be embedded to have forward compatible implementations.
type UnimplementedTradeServiceServer struct{}

func (UnimplementedTradeServiceServer) RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterUser not implemented")
}
func (UnimplementedTradeServiceServer) ProposeTrade(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ProposeTrade not implemented")
}
func (UnimplementedTradeServiceServer) UpdateTrade(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTrade not implemented")
}
func (UnimplementedTradeServiceServer) GetTrade(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTrade not implemented")
}
func (UnimplementedTradeServiceServer) CreateReview(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateReview not implemented")
}
func (UnimplementedTradeServiceServer) DeleteItem(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteItem not implemented")
}
func (UnimplementedTradeServiceServer) SendMessage(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedTradeServiceServer) ListMessages(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMessages not implemented")
}

type unaryCall func(srv TradeServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TradeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + TradeServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(TradeServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// TradeService_ServiceDesc is the grpc.ServiceDesc for swapcircle.v1.TradeService.
var TradeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TradeServiceName,
	HandlerType: (*TradeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("RegisterUser", TradeServiceServer.RegisterUser),
		unaryHandler("ProposeTrade", TradeServiceServer.ProposeTrade),
		unaryHandler("UpdateTrade", TradeServiceServer.UpdateTrade),
		unaryHandler("GetTrade", TradeServiceServer.GetTrade),
		unaryHandler("CreateReview", TradeServiceServer.CreateReview),
		unaryHandler("DeleteItem", TradeServiceServer.DeleteItem),
		unaryHandler("SendMessage", TradeServiceServer.SendMessage),
		unaryHandler("ListMessages", TradeServiceServer.ListMessages),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "swapcircle/v1/trade.proto",
}

func RegisterTradeServiceServer(s grpc.ServiceRegistrar, srv TradeServiceServer) {
	s.RegisterService(&TradeService_ServiceDesc, srv)
}
