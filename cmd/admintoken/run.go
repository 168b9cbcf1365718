package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

const defaultTTL = 24 * time.Hour

type options struct {
	secret  string
	subject string
	role    string
	ttl     time.Duration
	json    bool
}

func run(opts *options, w io.Writer) error {
	if opts.secret == "" {
		return errors.New("no signing secret: set AUTH_JWT_SECRET or pass --secret")
	}
	if opts.ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", opts.ttl)
	}
	tok, err := auth.NewAccessToken(opts.secret, opts.subject, opts.role, opts.ttl)
	if err != nil {
		return err
	}
	if opts.json {
		return json.NewEncoder(w).Encode(struct {
			Token     string    `json:"token"`
			ExpiresAt time.Time `json:"expires_at"`
		}{tok.Token, tok.Exp})
	}
	_, err = fmt.Fprintln(w, tok.Token)
	return err
}
