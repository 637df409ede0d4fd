package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// savedCookie is the persisted form of one cookie
type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Jar is an http.CookieJar that can be emptied and saved to a Store. The
// backend's HttpOnly session cookie lives here and nowhere else.
type Jar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

// NewJar creates an empty jar
func NewJar() *Jar {
	j := &Jar{}
	j.jar = newCookieJar()
	return j
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New only fails on a bad PublicSuffixList; nil is always valid
	jar, _ := cookiejar.New(nil)
	return jar
}

// SetCookies implements http.CookieJar
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// Reset drops every cookie
func (j *Jar) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar = newCookieJar()
}

// Empty reports whether the jar holds no cookie for u
func (j *Jar) Empty(u *url.URL) bool {
	return len(j.Cookies(u)) == 0
}

// Save writes the cookies for u to store. An empty jar deletes the saved
// session instead.
func (j *Jar) Save(store Store, u *url.URL) error {
	cookies := j.Cookies(u)
	if len(cookies) == 0 {
		return store.Delete(u.Host)
	}

	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return store.Save(u.Host, string(data))
}

// Restore loads cookies for u from store. A missing session is not an error.
func (j *Jar) Restore(store Store, u *url.URL) error {
	data, err := store.Load(u.Host)
	if errors.Is(err, ErrNotAuthenticated) {
		return nil
	}
	if err != nil {
		return err
	}

	var saved []savedCookie
	if err := json.Unmarshal([]byte(data), &saved); err != nil {
		// Unreadable entries are dropped so the next login starts clean
		_ = store.Delete(u.Host)
		return fmt.Errorf("failed to parse saved session: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/", HttpOnly: true})
	}

	root := *u
	root.Path = "/"
	j.SetCookies(&root, cookies)
	return nil
}
