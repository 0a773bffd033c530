package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/herbal-backoffice/internal/session"
	"github.com/redis/go-redis/v9"
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore keeps sessions in Redis with the refresh token's lifetime as TTL
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	indexKey := fmt.Sprintf(KeyEmployeeSessions, sess.EmployeeID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(KeySession, sess.ID), data, ttl)
		pipe.SAdd(ctx, indexKey, sess.ID)
		pipe.Expire(ctx, indexKey, ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := s.rdb.Get(ctx, fmt.Sprintf(KeySession, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Expired(time.Now()) {
		return nil, session.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fmt.Sprintf(KeySession, id))
		pipe.SRem(ctx, fmt.Sprintf(KeyEmployeeSessions, sess.EmployeeID), id)
		return nil
	})
	return err
}

func (s *SessionStore) DeleteByEmployee(ctx context.Context, employeeID string) error {
	indexKey := fmt.Sprintf(KeyEmployeeSessions, employeeID)
	ids, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(KeySession, id))
	}
	keys = append(keys, indexKey)
	return s.rdb.Del(ctx, keys...).Err()
}
