package repository

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// maxCookieSize é o limite prático de um cookie nos navegadores
const maxCookieSize = 4096

type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
	Path   string
}

// cookieStateRepository guarda o estado no próprio navegador do visitante.
// Vale para uma única requisição: lê os cookies do request e escreve no response.
type cookieStateRepository struct {
	req  *http.Request
	w    http.ResponseWriter
	opts CookieOptions
}

func NewCookieStateRepository(w http.ResponseWriter, r *http.Request, opts CookieOptions) StateRepository {
	if opts.Path == "" {
		opts.Path = "/"
	}

	return &cookieStateRepository{
		req:  r,
		w:    w,
		opts: opts,
	}
}

// CookieName converte a chave versionada ("convbench@v1") em um nome de cookie válido
func CookieName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}

func (c *cookieStateRepository) Get(key string) (string, bool, error) {
	cookie, err := c.req.Cookie(CookieName(key))
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "reading state cookie")
	}

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return "", false, errors.Wrap(err, "decoding state cookie")
	}

	return string(raw), true, nil
}

func (c *cookieStateRepository) Set(key string, value string) error {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))

	cookie := &http.Cookie{
		Name:     CookieName(key),
		Value:    encoded,
		Path:     c.opts.Path,
		MaxAge:   int(c.opts.MaxAge.Seconds()),
		Secure:   c.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if len(cookie.String()) > maxCookieSize {
		return errors.Wrapf(ErrQuotaExceeded, "state cookie has %d bytes", len(cookie.String()))
	}

	http.SetCookie(c.w, cookie)
	return nil
}

func (c *cookieStateRepository) Remove(key string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName(key),
		Value:    "",
		Path:     c.opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
	})
	return nil
}
