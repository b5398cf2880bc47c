package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stallbacken/stallplan/pkg/database"
)

var jwtAlgorithm = jwt.SigningMethodHS256

// Claims represents the admin JWT claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// jwtSecret is read per call so .env loading in main still takes effect.
func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new admin JWT, valid for 24 hours.
func CreateToken(username string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(jwtSecret())
}

// VerifyToken verifies an admin JWT.
func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// EnsureAdminExists bootstraps a single admin account from environment
// variables when the admin_users table is empty.
func EnsureAdminExists(db *gorm.DB) error {
	var count int64
	db.Model(&database.AdminUser{}).Count(&count)

	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return db.Create(&database.AdminUser{
		Username:     username,
		PasswordHash: hash,
	}).Error
}

// GenerateHMACKey mints a tenant API key: the tenant name joined with an
// HMAC-SHA256 signature over it, keyed by the master secret. Keys are
// verifiable offline, no lookup needed.
func GenerateHMACKey(tenant string) string {
	secret := os.Getenv("API_MASTER_SECRET")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(tenant))
	signature := hex.EncodeToString(mac.Sum(nil))
	return tenant + "." + signature
}

// VerifyHMACKey validates an HMAC-signed API key and returns the tenant
// name it was minted for.
func VerifyHMACKey(key string) (string, error) {
	tenant, providedSignature, found := strings.Cut(key, ".")
	if !found {
		return "", errors.New("invalid key format")
	}

	secret := os.Getenv("API_MASTER_SECRET")
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(tenant))
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	// Constant-time comparison to prevent timing attacks.
	if !hmac.Equal([]byte(providedSignature), []byte(expectedSignature)) {
		return "", errors.New("invalid signature")
	}

	return tenant, nil
}
