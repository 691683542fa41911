package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Service and method names on the wire
const (
	CardLookupServiceName = "xwing.api.v1alpha1.CardLookupService"
	LookupCardsFullMethod = "/" + CardLookupServiceName + "/LookupCards"
)

// CardLookupServiceServer is the server API for CardLookupService.
// Requests and replies use well-known types so no generated stubs are
// needed: the request is the raw chat text, the reply a Struct of the form
// {lines: [...], matched: n, too_many: bool}.
type CardLookupServiceServer interface {
	LookupCards(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// CardLookupServiceDesc describes CardLookupService for grpc.Server
var CardLookupServiceDesc = grpc.ServiceDesc{
	ServiceName: CardLookupServiceName,
	HandlerType: (*CardLookupServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "LookupCards",
			Handler:    lookupCardsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "xwing/api/v1alpha1/card_lookup.proto",
}

// RegisterCardLookupServiceServer registers srv with the gRPC server
func RegisterCardLookupServiceServer(s grpc.ServiceRegistrar, srv CardLookupServiceServer) {
	s.RegisterService(&CardLookupServiceDesc, srv)
}

func lookupCardsHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardLookupServiceServer).LookupCards(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LookupCardsFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CardLookupServiceServer).LookupCards(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// CardLookupServiceClient is the client API for CardLookupService
type CardLookupServiceClient interface {
	LookupCards(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type cardLookupServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCardLookupServiceClient creates a client on an open connection
func NewCardLookupServiceClient(cc grpc.ClientConnInterface) CardLookupServiceClient {
	return &cardLookupServiceClient{cc: cc}
}

func (c *cardLookupServiceClient) LookupCards(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LookupCardsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
