package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"robot-survival/game"
)

const (
	receiptExpiry = 24 * time.Hour
	secretSetting = "receipt_secret"
)

// ErrInvalidToken is returned for receipts that fail verification
var ErrInvalidToken = errors.New("invalid receipt")

// RunClaims is the verified content of a run receipt
type RunClaims struct {
	ID        string
	SessionID string
	Result    game.Result
}

// Receipts signs run results at game over so that a client can only
// submit scores the server actually simulated.
type Receipts struct {
	secret    []byte
	adminHash []byte
}

// NewReceipts builds a signer. An explicit secret wins; otherwise one is
// loaded from (or created in) the settings table.
func NewReceipts(db *DB, secret, adminHash string) *Receipts {
	r := &Receipts{}
	if secret != "" {
		r.secret = []byte(secret)
	} else {
		r.secret = loadOrCreateSecret(db)
	}
	if adminHash != "" {
		r.adminHash = []byte(adminHash)
	}
	return r
}

// loadOrCreateSecret loads the signing secret from the database, or
// generates and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting(secretSetting); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate receipt secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist receipt secret: %v", err)
		}
	}
	return secret
}

// Sign issues a receipt for a finished run
func (r *Receipts) Sign(sessionID string, res game.Result) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"sid": sessionID,
		"sc":  res.Score,
		"k":   res.Kills,
		"w":   res.Wave,
		"tm":  res.Time,
		"sec": res.Seconds,
		"bc":  res.BestCombo,
		"exp": now.Add(receiptExpiry).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign receipt: %w", err)
	}
	return s, nil
}

// Verify checks a receipt and returns the run it vouches for
func (r *Receipts) Verify(tokenStr string) (*RunClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return r.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	id, _ := claims["jti"].(string)
	sid, _ := claims["sid"].(string)
	tm, _ := claims["tm"].(string)
	score, ok1 := claims["sc"].(float64)
	kills, ok2 := claims["k"].(float64)
	wave, ok3 := claims["w"].(float64)
	if id == "" || !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	secs, _ := claims["sec"].(float64)
	combo, _ := claims["bc"].(float64)

	return &RunClaims{
		ID:        id,
		SessionID: sid,
		Result: game.Result{
			Score:     int(score),
			Kills:     int(kills),
			Wave:      int(wave),
			Time:      tm,
			Seconds:   int(secs),
			BestCombo: int(combo),
		},
	}, nil
}

// CheckAdmin compares a moderation key against the configured bcrypt hash.
// With no hash configured every key is refused.
func (r *Receipts) CheckAdmin(key string) bool {
	if len(r.adminHash) == 0 || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(r.adminHash, []byte(key)) == nil
}
