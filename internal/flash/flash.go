// Package flash 实现跨一次重定向的一次性提示信息：信息存放在 Store 中，
// 浏览器只持有一个随机 id 的 cookie，读取后立即删除。
package flash

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var ErrNoMessage = errors.New("flash: no message")

type Store interface {
	Set(ctx context.Context, id string, message string, ttl time.Duration) error
	// Pop 读取并删除 id 对应的信息，不存在时返回 ErrNoMessage
	Pop(ctx context.Context, id string) (string, error)
}

type Carrier struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewCarrier(store Store, cookieName string, ttl time.Duration, secure bool) *Carrier {
	return &Carrier{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Put 保存一条信息并通过 cookie 把 id 交给浏览器
func (c *Carrier) Put(ctx context.Context, w http.ResponseWriter, message string) error {
	id := uuid.NewString()
	if err := c.store.Set(ctx, id, message, c.ttl); err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     c.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	return nil
}

// Take 取出当前请求携带的信息，没有信息时返回空字符串；cookie 总会被清除
func (c *Carrier) Take(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		// 只可能是 http.ErrNoCookie
		return "", nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", nil
	}

	message, err := c.store.Pop(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, ErrNoMessage) {
			return "", nil
		}
		return "", err
	}

	return message, nil
}
