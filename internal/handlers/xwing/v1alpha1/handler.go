// Package v1alpha1 serves card lookups to chat front ends over gRPC
package v1alpha1

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/orchestrators/cardlookup"
	"github.com/KirkDiggler/xwing-api/internal/pkg/logger"
)

// MetadataDirect marks a message sent straight to the bot. Its whole text
// is the query; other messages only trigger on [[...]].
const MetadataDirect = "direct"

// Chat rate defaults
const (
	DefaultRateLimit = rate.Limit(10)
	DefaultBurst     = 20
)

var trigger = regexp.MustCompile(`\[\[(.*)\]\]`)

// ExtractTrigger returns the text between the first [[ and the last ]] on
// a line, and false when the message holds no lookup.
func ExtractTrigger(message string) (string, bool) {
	m := trigger.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HandlerConfig holds dependencies for the card lookup handler
type HandlerConfig struct {
	LookupService cardlookup.Service
	Logger        *zap.Logger
	// RateLimit is lookups per second across all callers; 0 uses the default
	RateLimit rate.Limit
	Burst     int
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.LookupService == nil {
		return errors.InvalidArgument("lookup service is required")
	}
	if c.RateLimit < 0 || c.Burst < 0 {
		return errors.InvalidArgument("rate limit and burst cannot be negative")
	}
	return nil
}

// Handler implements CardLookupServiceServer
type Handler struct {
	lookupService cardlookup.Service
	limiter       *rate.Limiter
	logger        *zap.Logger
}

// NewHandler creates a new card lookup handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	limit := cfg.RateLimit
	if limit == 0 {
		limit = DefaultRateLimit
	}
	burst := cfg.Burst
	if burst == 0 {
		burst = DefaultBurst
	}

	return &Handler{
		lookupService: cfg.LookupService,
		limiter:       rate.NewLimiter(limit, burst),
		logger:        logger.OrNop(cfg.Logger),
	}, nil
}

// LookupCards answers one chat message. A message without a lookup gets an
// empty reply, and a malformed query gets its error text as the only line.
func (h *Handler) LookupCards(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, errors.ToGRPCError(errors.InvalidArgument("request is required"))
	}

	query := req.GetValue()
	if !isDirect(ctx) {
		var ok bool
		if query, ok = ExtractTrigger(query); !ok {
			return h.reply(&Reply{})
		}
	}

	if !h.limiter.Allow() {
		return nil, errors.ToGRPCError(errors.ResourceExhausted("too many lookups, try again shortly"))
	}

	out, err := h.lookupService.Lookup(ctx, &cardlookup.LookupInput{Query: query})
	if err != nil {
		if errors.IsInvalidArgument(err) {
			return h.reply(&Reply{Lines: []string{errors.GetMessage(err)}})
		}
		h.logger.Error("lookup failed", zap.String("query", query), zap.Error(err))
		return nil, errors.ToGRPCError(err)
	}

	return h.reply(&Reply{
		Lines:   out.Lines,
		Matched: out.Matched,
		TooMany: out.TooMany,
	})
}

func (h *Handler) reply(r *Reply) (*structpb.Struct, error) {
	st, err := r.ToStruct()
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return st, nil
}

func isDirect(ctx context.Context) bool {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return false
	}
	for _, v := range md.Get(MetadataDirect) {
		if strings.EqualFold(v, "true") {
			return true
		}
	}
	return false
}
