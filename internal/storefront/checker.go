package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/linemk/topup-store/internal/domain/models"
	"github.com/linemk/topup-store/internal/service"
)

type CheckStatus string

const (
	CheckIdle     CheckStatus = "idle"
	CheckChecking CheckStatus = "checking"
	CheckSuccess  CheckStatus = "success"
	CheckError    CheckStatus = "error"
)

var (
	ErrMissingIDs = errors.New("user id and server id are required")
	// ErrStale - пока шёл запрос, был отправлен более новый; его ответ отброшен
	ErrStale = errors.New("stale lookup response")
)

// Lookup - прокси проверки ID
type Lookup interface {
	CheckID(ctx context.Context, q service.LookupQuery) (json.RawMessage, error)
}

type CheckerView struct {
	Status   CheckStatus
	UserID   string
	ServerID string
	Profile  *Profile
	Error    string
}

// Checker - проверка игрового ID.
// Каждый запрос получает номер; состояние меняет только ответ на последний запрос.
type Checker struct {
	game       string
	lookup     Lookup
	onVerified func(models.VerifiedUser)

	mu       sync.Mutex
	seq      uint64
	status   CheckStatus
	userID   string
	serverID string
	profile  *Profile
	errMsg   string
}

func NewChecker(game string, lookup Lookup, onVerified func(models.VerifiedUser)) *Checker {
	if game == "" {
		game = service.DefaultGame
	}
	return &Checker{
		game:       game,
		lookup:     lookup,
		onVerified: onVerified,
		status:     CheckIdle,
	}
}

// Check проверяет ID через прокси. Пустые поля отклоняются без сетевого вызова.
func (c *Checker) Check(ctx context.Context, userID, serverID string) (*Profile, error) {
	return c.check(ctx, userID, serverID, nil)
}

// check вызывает started после перехода в checking, до сетевого вызова
func (c *Checker) check(ctx context.Context, userID, serverID string, started func()) (*Profile, error) {
	c.mu.Lock()
	c.userID, c.serverID = userID, serverID
	if userID == "" || serverID == "" {
		c.mu.Unlock()
		return nil, ErrMissingIDs
	}
	c.seq++
	ticket := c.seq
	c.status = CheckChecking
	c.profile = nil
	c.errMsg = ""
	c.mu.Unlock()

	if started != nil {
		started()
	}

	raw, err := c.lookup.CheckID(ctx, service.LookupQuery{Game: c.game, UserID: userID, ServerID: serverID})

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket != c.seq {
		return nil, ErrStale
	}
	if err != nil {
		return nil, c.failLocked(err)
	}

	res, err := models.ParseLookupResult(raw)
	if err != nil {
		return nil, c.failLocked(err)
	}

	profile := BuildProfile(res, raw)
	c.status = CheckSuccess
	c.profile = &profile

	if c.onVerified != nil {
		c.onVerified(verifiedUser(profile, userID, serverID))
	}
	return &profile, nil
}

func (c *Checker) failLocked(err error) error {
	c.status = CheckError
	c.errMsg = service.UserMessage(err, "Upstream error", "Check failed")
	return err
}

// verifiedUser - если в ответе нет id или server, берём то, что вводил пользователь
func verifiedUser(p Profile, userID, serverID string) models.VerifiedUser {
	u := models.VerifiedUser{
		UserID:   p.UserID,
		ServerID: p.ServerID,
		Username: p.Username,
		Region:   p.RegionCode,
	}
	if u.UserID == "" {
		u.UserID = userID
	}
	if u.ServerID == "" {
		u.ServerID = serverID
	}
	return u
}

func (c *Checker) View() CheckerView {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := CheckerView{
		Status:   c.status,
		UserID:   c.userID,
		ServerID: c.serverID,
		Error:    c.errMsg,
	}
	if c.profile != nil {
		p := *c.profile
		v.Profile = &p
	}
	return v
}
