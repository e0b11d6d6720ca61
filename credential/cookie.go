package credential

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"time"
)

// CookieStore persists credentials as cookies in an http.CookieJar scoped to
// the module's origin. Cookies are SameSite=Strict and marked Secure when
// the origin uses encrypted transport. Values are base64url-encoded so
// structured payloads such as the session snapshot survive cookie value
// restrictions.
type CookieStore struct {
	jar    http.CookieJar
	origin *url.URL
}

// NewCookieStore wraps jar for the given origin URL.
func NewCookieStore(jar http.CookieJar, origin *url.URL) *CookieStore {
	return &CookieStore{jar: jar, origin: origin}
}

func (s *CookieStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	cookie := &http.Cookie{
		Name:     key,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(value)),
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		Secure:   s.origin.Scheme == "https",
	}
	if ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
		cookie.MaxAge = int(ttl / time.Second)
	}

	s.jar.SetCookies(s.origin, []*http.Cookie{cookie})
	return nil
}

func (s *CookieStore) Get(_ context.Context, key string) (string, error) {
	for _, cookie := range s.jar.Cookies(s.origin) {
		if cookie.Name != key {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			// Treat a corrupt value as absent; the caller rebuilds it.
			return "", ErrNotFound
		}
		return string(decoded), nil
	}
	return "", ErrNotFound
}

func (s *CookieStore) Delete(_ context.Context, key string) error {
	s.expire(key)
	return nil
}

func (s *CookieStore) Sweep(_ context.Context) error {
	for _, cookie := range s.jar.Cookies(s.origin) {
		if matchesAuthConvention(cookie.Name) {
			s.expire(cookie.Name)
		}
	}
	return nil
}

func (s *CookieStore) expire(name string) {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteStrictMode,
		Secure:   s.origin.Scheme == "https",
	}})
}
