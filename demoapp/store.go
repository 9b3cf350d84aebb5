package demoapp

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUserExists is returned by CreateUser for an already registered username.
var ErrUserExists = errors.New("user is already registered")

// User is a registered account.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// Post is one blog post.
type Post struct {
	ID       int       `json:"id"`
	AuthorID int       `json:"authorId"`
	Author   string    `json:"author"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Created  time.Time `json:"created"`
}

// Store keeps users and posts in an in-memory cache, so the demo app needs no
// external database. Every app instance gets its own Store and therefore its own
// independent data.
type Store struct {
	cache *bigcache.BigCache

	mu      sync.Mutex
	userSeq int
	postSeq int
}

func NewStore() (*Store, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(24 * time.Hour))
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

func userNameKey(username string) string { return "user:name:" + username }
func userIDKey(id int) string            { return fmt.Sprintf("user:id:%d", id) }
func postKey(id int) string              { return fmt.Sprintf("post:%d", id) }

const postIndexKey = "posts:index"

func (s *Store) get(key string, v interface{}) (bool, error) {
	raw, err := s.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, v)
}

func (s *Store) put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.cache.Set(key, raw)
}

// CreateUser registers a new account. The caller provides the password already
// hashed; the store never sees plaintext passwords.
func (s *Store) CreateUser(username, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing User
	if found, err := s.get(userNameKey(username), &existing); err != nil {
		return User{}, err
	} else if found {
		return User{}, ErrUserExists
	}

	s.userSeq++
	user := User{ID: s.userSeq, Username: username, PasswordHash: passwordHash}
	if err := s.put(userNameKey(username), user); err != nil {
		return User{}, err
	}
	if err := s.put(userIDKey(user.ID), user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Store) UserByName(username string) (User, bool) {
	var user User
	found, err := s.get(userNameKey(username), &user)
	return user, err == nil && found
}

func (s *Store) UserByID(id int) (User, bool) {
	var user User
	found, err := s.get(userIDKey(id), &user)
	return user, err == nil && found
}

// DeleteUser removes the account and every post it authored.
func (s *Store) DeleteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user User
	found, err := s.get(userNameKey(username), &user)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	ids, err := s.postIndex()
	if err != nil {
		return err
	}
	remaining := ids[:0]
	for _, id := range ids {
		var post Post
		if found, err := s.get(postKey(id), &post); err == nil && found && post.AuthorID == user.ID {
			_ = s.cache.Delete(postKey(id))
			continue
		}
		remaining = append(remaining, id)
	}
	if err := s.put(postIndexKey, remaining); err != nil {
		return err
	}

	if err := s.cache.Delete(userNameKey(username)); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	if err := s.cache.Delete(userIDKey(user.ID)); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (s *Store) postIndex() ([]int, error) {
	var ids []int
	if _, err := s.get(postIndexKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) CreatePost(author User, title, body string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postSeq++
	post := Post{
		ID:       s.postSeq,
		AuthorID: author.ID,
		Author:   author.Username,
		Title:    title,
		Body:     body,
		Created:  time.Now().UTC(),
	}
	if err := s.put(postKey(post.ID), post); err != nil {
		return Post{}, err
	}
	ids, err := s.postIndex()
	if err != nil {
		return Post{}, err
	}
	if err := s.put(postIndexKey, append(ids, post.ID)); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (s *Store) PostByID(id int) (Post, bool) {
	var post Post
	found, err := s.get(postKey(id), &post)
	return post, err == nil && found
}

// Posts returns every post, newest first.
func (s *Store) Posts() ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.postIndex()
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(ids))
	for _, id := range ids {
		var post Post
		if found, err := s.get(postKey(id), &post); err == nil && found {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (s *Store) UpdatePost(id int, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var post Post
	found, err := s.get(postKey(id), &post)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no post with id %d", id)
	}
	post.Title = title
	post.Body = body
	return s.put(postKey(id), post)
}

func (s *Store) DeletePost(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Delete(postKey(id)); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	ids, err := s.postIndex()
	if err != nil {
		return err
	}
	remaining := ids[:0]
	for _, existing := range ids {
		if existing != id {
			remaining = append(remaining, existing)
		}
	}
	return s.put(postIndexKey, remaining)
}
