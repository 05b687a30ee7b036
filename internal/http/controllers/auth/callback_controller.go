package auth

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/todolabs/todolist/internal/http/errors"
	svcauth "github.com/todolabs/todolist/internal/http/services/auth"
	"github.com/todolabs/todolist/internal/oauth"
	"github.com/todolabs/todolist/internal/observability/logger"
	"github.com/todolabs/todolist/internal/observability/metrics"
)

// DeepLinkScheme is where mobile callbacks deliver the session.
const DeepLinkScheme = "todolist://auth/callback"

// CallbackController handles the browser-facing GET callback. Unlike the
// JSON endpoints it answers with redirects (web and deep link) and an HTML
// page on failure, because the other end is a browser mid-navigation, not an
// API client.
type CallbackController struct {
	login       svcauth.LoginService
	frontendURL string
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(login svcauth.LoginService, frontendURL string) *CallbackController {
	return &CallbackController{login: login, frontendURL: strings.TrimRight(frontendURL, "/")}
}

var failurePage = template.Must(template.New("failure").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Login failed</title></head>
<body>
<h1>Login failed</h1>
<p>{{.Message}}</p>
<p><a href="{{.RetryURL}}">Try again</a></p>
</body>
</html>
`))

// Callback handles GET /api/auth/{provider}/callback.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := oauth.Provider(chi.URLParam(r, "provider"))
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("CallbackController.Callback"),
		logger.Provider(string(provider)),
	)

	q := r.URL.Query()
	state := strings.TrimSpace(q.Get("state"))
	mobile := isMobileClient(r, state)

	// The provider reports user denial and its own errors via ?error=.
	if idpError := strings.TrimSpace(q.Get("error")); idpError != "" {
		log.Warn("provider returned error",
			logger.String("error", idpError),
			logger.String("description", q.Get("error_description")),
		)
		metrics.ObserveLogin(string(provider), "provider_error")
		c.fail(w, r, provider, mobile, "The login provider reported: "+idpError)
		return
	}

	code := strings.TrimSpace(q.Get("code"))
	sess, err := c.login.LoginWithCode(ctx, provider, code, state)
	metrics.ObserveLogin(string(provider), loginResult(err))
	if err != nil {
		log.Warn("callback login failed", logger.Err(err))
		c.fail(w, r, provider, mobile, failureMessage(err))
		return
	}

	v := url.Values{}
	v.Set("token", sess.AccessToken)
	v.Set("refreshToken", sess.RefreshToken)

	if mobile {
		http.Redirect(w, r, DeepLinkScheme+"?"+v.Encode(), http.StatusFound)
		return
	}
	http.Redirect(w, r, c.frontendURL+"/auth/"+string(provider)+"/callback?"+v.Encode(), http.StatusFound)
}

// fail renders the HTML failure page, or for mobile clients deep-links the
// error back into the app.
func (c *CallbackController) fail(w http.ResponseWriter, r *http.Request, provider oauth.Provider, mobile bool, message string) {
	if mobile {
		v := url.Values{}
		v.Set("error", message)
		http.Redirect(w, r, DeepLinkScheme+"?"+v.Encode(), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_ = failurePage.Execute(w, struct {
		Message  string
		RetryURL string
	}{
		Message:  message,
		RetryURL: c.frontendURL + "/login",
	})
}

func failureMessage(err error) string {
	appErr := mapServiceError(err)
	if appErr == httperrors.ErrInternal || appErr.Code == httperrors.ErrInternal.Code {
		return "Something went wrong. Please try again."
	}
	return appErr.Message
}
