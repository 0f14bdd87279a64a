package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/outrix/churn-predictor/internal/application/dto"
	"github.com/outrix/churn-predictor/internal/application/session"
)

// LocalSession key de c.Locals con la *session.Session del navegador.
const LocalSession = "churn_session"

// NewSessionStore store de fiber que emite la cookie de sesión con ids uuid.
func NewSessionStore(cookieName string, ttl time.Duration) *fibersession.Store {
	return fibersession.New(fibersession.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + cookieName,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionMiddleware resuelve la cookie de sesión (creándola si no existe) y carga en
// c.Locals la sesión de UI correspondiente del registro.
func SessionMiddleware(store *fibersession.Store, registry *session.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SESSION", Message: "no se pudo leer la sesión"})
		}
		id := sess.ID()
		// Save renueva la expiración y escribe la cookie en la respuesta.
		if err := sess.Save(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SESSION", Message: "no se pudo guardar la sesión"})
		}
		c.Locals(LocalSession, registry.Get(id))
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después de SessionMiddleware).
func GetSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(LocalSession).(*session.Session)
	return s
}
