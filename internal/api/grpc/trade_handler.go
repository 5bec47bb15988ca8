package grpc

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/security"
	"swapcircle-backend/internal/service"

	"google.golang.org/protobuf/types/known/structpb"
)

// TradeHandler serves swapcircle.v1.TradeService on top of the marketplace
// services. Domain errors are returned as is and converted to status codes
// by interceptor.Errors.
type TradeHandler struct {
	UnimplementedTradeServiceServer
	userSvc    service.UserService
	itemSvc    service.ItemService
	tradeSvc   service.TradeService
	reviewSvc  service.ReviewService
	messageSvc service.MessageService
}

func NewTradeHandler(userSvc service.UserService, itemSvc service.ItemService, tradeSvc service.TradeService,
	reviewSvc service.ReviewService, messageSvc service.MessageService) *TradeHandler {
	return &TradeHandler{
		userSvc:    userSvc,
		itemSvc:    itemSvc,
		tradeSvc:   tradeSvc,
		reviewSvc:  reviewSvc,
		messageSvc: messageSvc,
	}
}

func (h *TradeHandler) RegisterUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	name := stringField(req, "display_name")
	email := stringField(req, "email")
	if id, ok := security.IdentityFromContext(ctx); ok {
		if name == "" {
			name = id.DisplayName
		}
		if id.Email != "" {
			email = id.Email
		}
	}
	user, err := h.userSvc.RegisterProfile(ctx, userID, name, email)
	if err != nil {
		return nil, err
	}
	return MapDomainUserToProto(user)
}

func (h *TradeHandler) ProposeTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	trade, err := h.tradeSvc.ProposeTrade(ctx, userID, service.ProposeInput{
		ProposerItemID: stringField(req, "proposer_item_id"),
		ReceiverItemID: stringField(req, "receiver_item_id"),
		Message:        stringField(req, "message"),
	})
	if err != nil {
		return nil, err
	}
	return MapDomainTradeToProto(trade)
}

// UpdateTrade applies {"trade_id", "action"} where action is one of accept,
// reject, cancel, confirm-start or confirm-return.
func (h *TradeHandler) UpdateTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	action := domain.TradeAction(stringField(req, "action"))
	if !action.Valid() {
		return nil, domain.Validation("action must be one of accept, reject, cancel, confirm-start or confirm-return")
	}
	trade, err := h.tradeSvc.Transition(ctx, userID, stringField(req, "trade_id"), action)
	if err != nil {
		return nil, err
	}
	return MapDomainTradeToProto(trade)
}

func (h *TradeHandler) GetTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	trade, err := h.tradeSvc.GetTrade(ctx, userID, stringField(req, "trade_id"))
	if err != nil {
		return nil, err
	}
	return MapDomainTradeToProto(trade)
}

func (h *TradeHandler) CreateReview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rating, ok := intField(req, "rating")
	if !ok {
		return nil, domain.Validation("rating must be a whole number between 1 and 5")
	}
	review, err := h.reviewSvc.CreateReview(ctx, userID, stringField(req, "trade_id"), rating, stringField(req, "comment"))
	if err != nil {
		return nil, err
	}
	return MapDomainReviewToProto(review)
}

func (h *TradeHandler) DeleteItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.itemSvc.DeleteItem(ctx, userID, stringField(req, "item_id")); err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{"success": true})
}

func (h *TradeHandler) SendMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := h.messageSvc.SendMessage(ctx, userID, stringField(req, "trade_id"), stringField(req, "text"))
	if err != nil {
		return nil, err
	}
	return MapDomainMessageToProto(msg)
}

func (h *TradeHandler) ListMessages(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := h.messageSvc.ListMessages(ctx, userID, stringField(req, "trade_id"))
	if err != nil {
		return nil, err
	}
	return MapDomainMessagesToProto(msgs)
}
