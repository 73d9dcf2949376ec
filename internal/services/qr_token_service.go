package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"staffing-system/internal/dto"
	apperrors "staffing-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const checkinSubject = "checkin"

var errInvalidSigningMethod = errors.New("método de firma no válido")

type CheckinClaims struct {
	PedidoID   string `json:"pid"`
	CamareroID string `json:"cid"`
	jwt.RegisteredClaims
}

type QRTokenServiceInterface interface {
	Generate(pedidoID, camareroID string) (*dto.QRTokenDTO, error)
	Validate(token string) (*CheckinClaims, error)
	PNG(link string, size int) ([]byte, error)
}

// QRTokenService signs the self check-in links printed as QR codes. The link
// is public, so the signature is what authenticates it.
type QRTokenService struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

func NewQRTokenService(secret string, ttl time.Duration, baseURL string) *QRTokenService {
	return &QRTokenService{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: baseURL,
		now:     time.Now,
	}
}

func (s *QRTokenService) Generate(pedidoID, camareroID string) (*dto.QRTokenDTO, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	claims := &CheckinClaims{
		PedidoID:   pedidoID,
		CamareroID: camareroID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   checkinSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("error firmando el token: %w", err)
	}

	return &dto.QRTokenDTO{
		PedidoID:   pedidoID,
		CamareroID: camareroID,
		Token:      token,
		Enlace:     s.baseURL + "/checkin/" + token,
		ExpiraEn:   exp.UTC(),
	}, nil
}

func (s *QRTokenService) Validate(tokenString string) (*CheckinClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CheckinClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSigningMethod
		}
		return s.secret, nil
	}, jwt.WithSubject(checkinSubject), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewHttpError(http.StatusUnauthorized, "el enlace de fichaje ha caducado", apperrors.ErrUnauthorized, nil)
		}
		return nil, apperrors.NewUnauthorizedError(apperrors.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*CheckinClaims)
	if !ok || !token.Valid || claims.PedidoID == "" || claims.CamareroID == "" {
		return nil, apperrors.NewUnauthorizedError(apperrors.ErrUnauthorized)
	}
	return claims, nil
}

func (s *QRTokenService) PNG(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("error generando el QR: %w", err)
	}
	return png, nil
}
