package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// DeviceInfo is a coarse description of the calling client, attached to
// audit events so issuer actions and verifications can be traced back to a
// browser or script.
type DeviceInfo struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

type contextKeyDevice struct{}

var ContextKeyDevice = contextKeyDevice{}

// GetDevice retrieves the parsed device info from the context.
func GetDevice(ctx context.Context) DeviceInfo {
	info, ok := ctx.Value(ContextKeyDevice).(DeviceInfo)
	if !ok {
		return DeviceInfo{}
	}
	return info
}

// Device parses the User-Agent header once per request.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		name, _ := ua.Browser()
		info := DeviceInfo{
			Browser: name,
			OS:      ua.OS(),
			Mobile:  ua.Mobile(),
			Bot:     ua.Bot(),
		}
		ctx := context.WithValue(r.Context(), ContextKeyDevice, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
