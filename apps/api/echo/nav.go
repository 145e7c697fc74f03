package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/educhain/backend/core/nav"
)

type navApi struct{}

func registerNavigationAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	api := navApi{}

	ng := g.Group("/navigation", jwt)
	ng.GET("", api.query)
	ng.GET("/activate/:entry", api.activate)
}

// Handlers

func (api navApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, nav.VisibleEntries(claims.Role))
}

// activate is the section activation gate: an entry the caller's role may not
// open falls back to the landing section instead of failing.
func (api navApi) activate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, ActivateResponse{Entry: nav.GuardActivate(claims.Role, ctx.Param("entry"))})
}

type ActivateResponse struct {
	Entry string `json:"entry"`
}
