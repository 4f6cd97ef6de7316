package core

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dkeye/PhoneCall/internal/domain"
	"github.com/rs/zerolog/log"
)

// maxCodeDraws bounds redraws on code collision; the code space is 36^6.
const maxCodeDraws = 32

type CodeGenerator func(n int) domain.GroupCode

type GroupOption func(*groupRegistry)

func WithCapacity(n int) GroupOption {
	return func(r *groupRegistry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

func WithCodeLength(n int) GroupOption {
	return func(r *groupRegistry) {
		if n > 0 {
			r.codeLen = n
		}
	}
}

func WithCodeGenerator(gen CodeGenerator) GroupOption {
	return func(r *groupRegistry) {
		if gen != nil {
			r.gen = gen
		}
	}
}

// groupRegistry is a threadsafe in-memory GroupRegistry.
type groupRegistry struct {
	mu       sync.RWMutex
	groups   map[domain.GroupCode][]domain.Member
	order    []domain.GroupCode
	capacity int
	codeLen  int
	gen      CodeGenerator
}

func NewGroupRegistry(opts ...GroupOption) GroupRegistry {
	r := &groupRegistry{
		groups:   make(map[domain.GroupCode][]domain.Member),
		capacity: domain.DefaultGroupCapacity,
		codeLen:  domain.DefaultCodeLength,
		gen:      domain.NewGroupCode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *groupRegistry) Create(creator domain.Member) (domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.freshCode()
	if err != nil {
		return domain.Group{}, err
	}
	r.groups[code] = []domain.Member{creator}
	r.order = append(r.order, code)
	log.Info().Str("module", "core.groups").Str("code", string(code)).Str("creator", creator.Name).Msg("group created")
	return r.snapshot(code), nil
}

func (r *groupRegistry) freshCode() (domain.GroupCode, error) {
	for range maxCodeDraws {
		code := r.gen(r.codeLen)
		if _, taken := r.groups[code]; !taken {
			return code, nil
		}
		log.Debug().Str("module", "core.groups").Str("code", string(code)).Msg("code collision, redrawing")
	}
	return "", fmt.Errorf("no free group code after %d draws", maxCodeDraws)
}

func (r *groupRegistry) Join(code domain.GroupCode, m domain.Member) (domain.Group, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.groups[code]
	if !ok {
		return domain.Group{}, -1, fmt.Errorf("join %s: %w", code, domain.ErrGroupNotFound)
	}
	if len(members) >= r.capacity {
		return domain.Group{}, -1, fmt.Errorf("join %s: %w", code, domain.ErrGroupFull)
	}
	r.groups[code] = append(members, m)
	idx := len(members)
	log.Info().Str("module", "core.groups").Str("code", string(code)).Str("member", m.Name).Int("count", idx+1).Msg("member joined")
	return r.snapshot(code), idx, nil
}

func (r *groupRegistry) Get(code domain.GroupCode) (domain.Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.groups[code]; !ok {
		return domain.Group{}, false
	}
	return r.snapshot(code), true
}

func (r *groupRegistry) UpdateMember(code domain.GroupCode, idx int, fn func(*domain.Member)) (domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.groups[code]
	if !ok {
		return domain.Group{}, fmt.Errorf("update %s: %w", code, domain.ErrGroupNotFound)
	}
	if idx < 0 || idx >= len(members) {
		return domain.Group{}, fmt.Errorf("update %s: no member at slot %d", code, idx)
	}
	fn(&members[idx])
	return r.snapshot(code), nil
}

func (r *groupRegistry) List() []GroupInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GroupInfo, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, GroupInfo{Code: code, MemberCount: len(r.groups[code])})
	}
	return out
}

// snapshot must be called with mu held.
func (r *groupRegistry) snapshot(code domain.GroupCode) domain.Group {
	return domain.Group{
		Code:     code,
		Members:  slices.Clone(r.groups[code]),
		Capacity: r.capacity,
	}
}
