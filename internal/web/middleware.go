package web

import (
    "net/http"
    "time"

    chimw "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog/log"
)

// requestLogger logs one line per request once the handler returns.
func requestLogger(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
        start := time.Now()
        next.ServeHTTP(ww, r)
        status := ww.Status()
        if status == 0 {
            status = http.StatusOK
        }
        ev := log.Info()
        if status >= http.StatusInternalServerError {
            ev = log.Error()
        }
        ev.Str("method", r.Method).
            Str("path", r.URL.Path).
            Int("status", status).
            Int("bytes", ww.BytesWritten()).
            Dur("took", time.Since(start)).
            Str("request_id", chimw.GetReqID(r.Context())).
            Msg("request")
    })
}
