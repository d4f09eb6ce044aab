package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodPost, "/v1/auth/login", h.loginHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/refresh", h.refreshHandler)
	router.HandlerFunc(http.MethodGet, "/v1/auth/profile", h.requireAuthenticatedUser(h.profileHandler))
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", h.requireAuthenticatedUser(h.logoutHandler))
	router.HandlerFunc(http.MethodPost, "/v1/auth/forgot-password", h.forgotPasswordHandler)

	router.HandlerFunc(http.MethodGet, "/v1/base-info", h.listProjectsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/base-info/:projectId", h.showProjectHandler)
	router.HandlerFunc(http.MethodGet, "/v1/search", h.searchProjectsHandler)

	router.HandlerFunc(http.MethodGet, "/v1/comments", h.listCommentsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/comments/replies", h.listRepliesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/comments", h.requireConfirmedUser(h.createCommentHandler))
	router.HandlerFunc(http.MethodGet, "/v1/comments/liked", h.requireAuthenticatedUser(h.likedCommentsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/comments/:commentId/reaction", h.requireConfirmedUser(h.reactionHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/comments/:commentId", h.requireAuthenticatedUser(h.deleteCommentHandler))

	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
