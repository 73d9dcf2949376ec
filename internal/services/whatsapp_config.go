package services

import (
	"fmt"
	"regexp"
	"strings"

	"staffing-system/internal/dto"
	"staffing-system/pkg/config"
)

type WhatsAppConfigState string

const (
	WhatsAppConfigured      WhatsAppConfigState = "configured"
	WhatsAppUnconfigured    WhatsAppConfigState = "unconfigured"
	WhatsAppSuspiciousToken WhatsAppConfigState = "suspicious-token"
	WhatsAppDuplicateValues WhatsAppConfigState = "duplicate-values"
)

const (
	minAccessTokenLength = 200
	accessTokenPrefix    = "EAA"
)

var phoneIDRegex = regexp.MustCompile(`^\d{14,17}$`)

type ConfigCheck struct {
	State  WhatsAppConfigState
	Detail string
}

// ClassifyWhatsAppConfig never fails: anything it cannot vouch for degrades
// to unconfigured or suspicious-token.
func ClassifyWhatsAppConfig(phoneID, apiKey string, configured bool) ConfigCheck {
	phoneID = strings.TrimSpace(phoneID)
	apiKey = strings.TrimSpace(apiKey)

	if !configured || (phoneID == "" && apiKey == "") {
		return ConfigCheck{
			State:  WhatsAppUnconfigured,
			Detail: "No hay credenciales de WhatsApp configuradas: los mensajes se enviarán manualmente desde el navegador.",
		}
	}

	if phoneID == apiKey {
		return ConfigCheck{
			State:  WhatsAppDuplicateValues,
			Detail: "WHATSAPP_PHONE_ID y WHATSAPP_API_KEY tienen el mismo valor; son datos distintos y deben configurarse por separado.",
		}
	}

	var problems []string
	if len(apiKey) < minAccessTokenLength || !strings.HasPrefix(apiKey, accessTokenPrefix) {
		problems = append(problems, fmt.Sprintf("el token de acceso debería empezar por %q y tener más de %d caracteres (tiene %d)",
			accessTokenPrefix, minAccessTokenLength, len(apiKey)))
	}
	if !phoneIDRegex.MatchString(phoneID) {
		problems = append(problems, fmt.Sprintf("el identificador del número debería tener unos 15 dígitos (tiene %d caracteres)", len(phoneID)))
	}
	if len(problems) > 0 {
		detail := "Configuración sospechosa: " + strings.Join(problems, "; ") + "."
		if looksLikeAccessToken(phoneID) {
			detail += " Parece que los valores están intercambiados."
		}
		return ConfigCheck{State: WhatsAppSuspiciousToken, Detail: detail}
	}

	return ConfigCheck{
		State:  WhatsAppConfigured,
		Detail: "WhatsApp configurado: el envío automático está activo.",
	}
}

func looksLikeAccessToken(s string) bool {
	return strings.HasPrefix(s, accessTokenPrefix) || len(s) >= minAccessTokenLength
}

type WhatsAppConfigServiceInterface interface {
	Verify() dto.WhatsAppConfigCheckDTO
	AutomaticDispatch() bool
}

type WhatsAppConfigService struct {
	cfg config.WhatsAppConfig
}

func NewWhatsAppConfigService(cfg config.WhatsAppConfig) *WhatsAppConfigService {
	return &WhatsAppConfigService{cfg: cfg}
}

func (s *WhatsAppConfigService) check() ConfigCheck {
	return ClassifyWhatsAppConfig(s.cfg.PhoneID, s.cfg.APIKey, s.cfg.Configured())
}

func (s *WhatsAppConfigService) Verify() dto.WhatsAppConfigCheckDTO {
	c := s.check()
	return dto.WhatsAppConfigCheckDTO{
		Estado:          string(c.State),
		Detalle:         c.Detail,
		EnvioAutomatico: c.State == WhatsAppConfigured,
	}
}

func (s *WhatsAppConfigService) AutomaticDispatch() bool {
	return s.check().State == WhatsAppConfigured
}
