package email

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// Spanish month names indexed by mes (1-12).
var meses = [...]string{
	"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// ReceiptData carries the fields rendered into a payment receipt email.
type ReceiptData struct {
	ParticipanteNombre string
	Mes                int
	Anio               int
	Monto              float64
	MetodoPago         string
	FechaPago          string
	Observaciones      string // markdown, rendered into the receipt body
}

// Subject builds the receipt subject line.
func (d ReceiptData) Subject() string {
	return fmt.Sprintf("Recibo de pago - %s %d", nombreMes(d.Mes), d.Anio)
}

func nombreMes(mes int) string {
	if mes >= 1 && mes < len(meses) {
		return meses[mes]
	}
	return fmt.Sprintf("Mes %d", mes)
}

var observacionesMarkdown = goldmark.New(
	goldmark.WithRendererOptions(ghtml.WithHardWraps()),
)

// RenderReceiptHTML renders the receipt email body. The observaciones field
// is treated as markdown; everything else is escaped.
// POST: Returns a self-contained HTML document
func RenderReceiptHTML(d ReceiptData) (string, error) {
	var observaciones string
	if d.Observaciones != "" {
		var buf bytes.Buffer
		if err := observacionesMarkdown.Convert([]byte(d.Observaciones), &buf); err != nil {
			return "", fmt.Errorf("render observaciones: %w", err)
		}
		observaciones = buf.String()
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#333">`)
	b.WriteString(`<h2>Recibo de pago</h2>`)
	fmt.Fprintf(&b, `<p>Pago registrado para <strong>%s</strong>.</p>`, html.EscapeString(d.ParticipanteNombre))
	b.WriteString(`<table cellpadding="6" style="border-collapse:collapse">`)
	writeRow(&b, "Periodo", fmt.Sprintf("%s %d", nombreMes(d.Mes), d.Anio))
	writeRow(&b, "Monto", fmt.Sprintf("$%.2f", d.Monto))
	writeRow(&b, "Metodo de pago", d.MetodoPago)
	if d.FechaPago != "" {
		writeRow(&b, "Fecha de pago", d.FechaPago)
	}
	b.WriteString(`</table>`)
	if observaciones != "" {
		b.WriteString(`<h3>Observaciones</h3>`)
		b.WriteString(observaciones)
	}
	b.WriteString(`<p style="color:#888;font-size:12px">Fundacion Alma</p>`)
	b.WriteString(`</body></html>`)
	return b.String(), nil
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<tr><td style="border:1px solid #ddd"><strong>%s</strong></td><td style="border:1px solid #ddd">%s</td></tr>`,
		html.EscapeString(label), html.EscapeString(value))
}
