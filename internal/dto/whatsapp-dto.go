package dto

type WhatsAppConfigCheckDTO struct {
	Estado          string `json:"estado"`
	Detalle         string `json:"detalle"`
	EnvioAutomatico bool   `json:"envio_automatico"`
}

type WebhookResultDTO struct {
	Recibidas  int `json:"recibidas"`
	Procesadas int `json:"procesadas"`
	Duplicadas int `json:"duplicadas"`
	Rechazadas int `json:"rechazadas"`
}
