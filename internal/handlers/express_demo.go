package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"serverless-adapter-kit/pkg/express"
)

// ExpressDemo is the terminal handler for the Express-mode demo routes. It
// routes on the matched template parameters the same way an Express app
// would on req.params.
func ExpressDemo(req *express.Request, res *express.Response) error {
	switch {
	case strings.HasSuffix(req.Path, "/whoami"):
		return whoAmI(req, res)
	case strings.HasSuffix(req.Path, "/prefs") && req.Method == http.MethodPost:
		return savePrefs(req, res)
	case strings.HasSuffix(req.Path, "/prefs") && req.Method == http.MethodGet:
		return readPrefs(req, res)
	case req.Param("name") != "":
		res.JSON(map[string]interface{}{
			"greeting": fmt.Sprintf("hello, %s", req.Param("name")),
		})
		return nil
	default:
		res.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "Not Found",
			Message: "no route for " + req.Method + " " + req.Path,
		})
		return nil
	}
}

// whoAmI extracts the bearer token's claims without verifying the
// signature; the demo has no trust requirements, it only shows header
// access through the Express-style accessors.
func whoAmI(req *express.Request, res *express.Response) error {
	auth := req.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		res.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "Unauthorized",
			Message: "missing bearer token",
		})
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		res.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "Unauthorized",
			Message: "malformed token",
		})
		return nil
	}

	res.JSON(map[string]interface{}{"claims": claims})
	return nil
}

func savePrefs(req *express.Request, res *express.Response) error {
	theme := "light"
	if body, ok := req.Body.(map[string]interface{}); ok {
		if v, ok := body["theme"].(string); ok && v != "" {
			theme = v
		}
	}

	res.Cookie("theme", theme, &express.CookieOptions{Path: "/", MaxAge: 86400}).
		JSON(map[string]string{"theme": theme})
	return nil
}

func readPrefs(req *express.Request, res *express.Response) error {
	theme := req.Cookies["theme"]
	if theme == "" {
		theme = "light"
	}
	res.JSON(map[string]string{"theme": theme})
	return nil
}
