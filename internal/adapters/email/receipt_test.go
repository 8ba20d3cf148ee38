package email

import (
	"strings"
	"testing"
)

func TestRenderReceiptHTML(t *testing.T) {
	out, err := RenderReceiptHTML(ReceiptData{
		ParticipanteNombre: "Maria Lopez",
		Mes:                3,
		Anio:               2025,
		Monto:              50000,
		MetodoPago:         "TRANSFERENCIA",
		FechaPago:          "2025-03-05",
		Observaciones:      "Pago **completo** del mes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Maria Lopez") {
		t.Error("expected participante name in receipt")
	}
	if !strings.Contains(out, "Marzo 2025") {
		t.Error("expected period label in receipt")
	}
	if !strings.Contains(out, "$50000.00") {
		t.Error("expected monto in receipt")
	}
	// markdown observaciones rendered to HTML
	if !strings.Contains(out, "<strong>completo</strong>") {
		t.Errorf("expected rendered markdown, got: %s", out)
	}
}

func TestRenderReceiptHTMLEscapesName(t *testing.T) {
	out, err := RenderReceiptHTML(ReceiptData{
		ParticipanteNombre: "<script>x</script>",
		Mes:                1,
		Anio:               2025,
		Monto:              10,
		MetodoPago:         "EFECTIVO",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("expected participante name to be escaped")
	}
}

func TestReceiptSubject(t *testing.T) {
	d := ReceiptData{Mes: 12, Anio: 2024}
	if got := d.Subject(); got != "Recibo de pago - Diciembre 2024" {
		t.Errorf("unexpected subject: %s", got)
	}
}
