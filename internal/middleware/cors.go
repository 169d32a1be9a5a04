package middleware

import (
	"github.com/valyala/fasthttp"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsMaxAge       = "600"
)

// CORS allows every origin and answers preflight requests directly.
func CORS() Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			header := &ctx.Response.Header
			origin := ctx.Request.Header.Peek("Origin")
			if len(origin) > 0 {
				header.SetBytesV("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Add("Vary", "Origin")
			} else {
				header.Set("Access-Control-Allow-Origin", "*")
			}

			if ctx.IsOptions() {
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				if requested := ctx.Request.Header.Peek("Access-Control-Request-Headers"); len(requested) > 0 {
					header.SetBytesV("Access-Control-Allow-Headers", requested)
				} else {
					header.Set("Access-Control-Allow-Headers", "*")
				}
				header.Set("Access-Control-Max-Age", corsMaxAge)
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}
