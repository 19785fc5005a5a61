package enums

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FulfillmentStatus maps to pedidos.status_detalhado.
type FulfillmentStatus string

const (
	FulfillmentAwaitingPreparation FulfillmentStatus = "aguardando_preparacao"
	FulfillmentAwaitingAcceptance  FulfillmentStatus = "aguardando_aceite"
	FulfillmentPreparing           FulfillmentStatus = "preparando_pedido"
	FulfillmentReadyForPickup      FulfillmentStatus = "pronto_para_retirada"
	FulfillmentPickedUp            FulfillmentStatus = "retirado"
	FulfillmentAccepted            FulfillmentStatus = "aceito"
	FulfillmentInTransit           FulfillmentStatus = "a_caminho"
	FulfillmentDelivered           FulfillmentStatus = "entregue"
	FulfillmentCancelled           FulfillmentStatus = "cancelado"
)

var validFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentAwaitingPreparation,
	FulfillmentAwaitingAcceptance,
	FulfillmentPreparing,
	FulfillmentReadyForPickup,
	FulfillmentPickedUp,
	FulfillmentAccepted,
	FulfillmentInTransit,
	FulfillmentDelivered,
	FulfillmentCancelled,
}

// PendingFulfillmentStatuses are the states an order is created in.
var PendingFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentAwaitingPreparation,
	FulfillmentAwaitingAcceptance,
}

// CompletedFulfillmentStatuses are the terminal success states.
var CompletedFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentPickedUp,
	FulfillmentDelivered,
}

var statusTitler = cases.Title(language.BrazilianPortuguese)

// String implements fmt.Stringer.
func (s FulfillmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known FulfillmentStatus.
func (s FulfillmentStatus) IsValid() bool {
	for _, candidate := range validFulfillmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsPending reports whether the order still waits for the reseller's decision.
func (s FulfillmentStatus) IsPending() bool {
	return s == FulfillmentAwaitingPreparation || s == FulfillmentAwaitingAcceptance
}

// IsCompleted reports whether the order reached a terminal success state.
func (s FulfillmentStatus) IsCompleted() bool {
	return s == FulfillmentPickedUp || s == FulfillmentDelivered
}

// IsTerminal reports whether no further transition is possible.
func (s FulfillmentStatus) IsTerminal() bool {
	return s.IsCompleted() || s == FulfillmentCancelled
}

// Label renders the status for humans: "preparando_pedido" -> "Preparando Pedido".
func (s FulfillmentStatus) Label() string {
	raw := strings.TrimSpace(strings.ReplaceAll(string(s), "_", " "))
	if raw == "" {
		return ""
	}
	return statusTitler.String(raw)
}

// ParseFulfillmentStatus converts raw input into a FulfillmentStatus.
func ParseFulfillmentStatus(value string) (FulfillmentStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validFulfillmentStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment status %q", value)
}
