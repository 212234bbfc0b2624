package log

import (
	"context"
	"log/slog"
)

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID = "request_id"

	// ConversationContextID 会话 ID
	ConversationContextID = "conversation_id"

	// TripContextID 行程 ID
	TripContextID = "trip_id"

	// UserContextID 用户 ID
	UserContextID = "user_id"
)

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithConversationID 在上下文中添加会话 ID
func WithConversationID(ctx context.Context, conversationID string) context.Context {
	return context.WithValue(ctx, ConversationContextID, conversationID)
}

// WithTripID 在上下文中添加行程 ID
func WithTripID(ctx context.Context, tripID string) context.Context {
	return context.WithValue(ctx, TripContextID, tripID)
}

// WithUserID 在上下文中添加用户 ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserContextID, userID)
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if requestID := ctx.Value(RequestContextID); requestID != nil {
		attrs = append(attrs, slog.String("request_id", requestID.(string)))
	}
	if conversationID := ctx.Value(ConversationContextID); conversationID != nil {
		attrs = append(attrs, slog.String("conversation_id", conversationID.(string)))
	}
	if tripID := ctx.Value(TripContextID); tripID != nil {
		attrs = append(attrs, slog.String("trip_id", tripID.(string)))
	}
	if userID := ctx.Value(UserContextID); userID != nil {
		attrs = append(attrs, slog.String("user_id", userID.(string)))
	}

	return attrs
}
