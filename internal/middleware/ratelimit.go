package middleware

import (
	"fmt"
	"log"
	"net/http"

	"garage-backend/pkg/utils"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// DefaultLoginRate allows ten attempts per minute per client IP
const DefaultLoginRate = "10-M"

// NewRateLimit limits requests per client IP using a formatted rate such as "10-M".
// The key is the connection address unless trustProxy is set, in which case
// X-Forwarded-For and X-Real-IP are honoured. Only enable that behind a proxy
// that overwrites those headers.
func NewRateLimit(formatted string, trustProxy bool) (func(http.Handler) http.Handler, error) {
	if formatted == "" {
		formatted = DefaultLoginRate
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(trustProxy))

	limiterMiddleware := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("[RateLimit] Limit reached for %s on %s", ClientIP(r), r.URL.Path)
			utils.Error(w, http.StatusTooManyRequests, "Quá nhiều lần thử. Vui lòng thử lại sau.")
		}),
	)

	return limiterMiddleware.Handler, nil
}
