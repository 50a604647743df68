package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"inferd/pkg/types"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logInferStart(r *http.Request, req types.InferRequest) {
	if zlog == nil {
		log.Printf("infer start path=%s model=%s", r.URL.Path, req.Model)
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("model", req.Model)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("infer start")
}

func logInferEnd(r *http.Request, status int, dur time.Duration, err error) {
	if zlog == nil {
		log.Printf("infer end status=%d dur=%s err=%v", status, dur, err)
		return
	}
	z := zlog.Info().Int("status", status).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("infer end")
}

func logError(err error, msg string) {
	if zlog == nil {
		log.Printf("%s: %v", msg, err)
		return
	}
	zlog.Error().Err(err).Msg(msg)
}
