package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"paintshop/internal/domain/model"
)

var completedTmpl = template.Must(template.New("order_completed").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif">
  <h2>Your order #{{.OrderID}} is completed</h2>
  <p>Thank you for shopping at {{.ShopName}}. The receipt is attached as a PDF.</p>
  <table cellpadding="4" style="border-collapse: collapse">
    <tr><th align="left">Product</th><th align="right">Quantity</th><th align="right">Unit price</th></tr>
    {{- range .Lines}}
    <tr><td>{{.Name}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.UnitPrice}}</td></tr>
    {{- end}}
  </table>
  <p><strong>Total: {{.Total}}</strong></p>
</body>
</html>
`))

type completedLine struct {
	Name      string
	Quantity  string
	UnitPrice string
}

type completedView struct {
	ShopName string
	OrderID  int64
	Lines    []completedLine
	Total    string
}

func completedSubject(order model.Order) string {
	return fmt.Sprintf("Order #%d completed", order.ID)
}

// 商品名などはhtml/templateがエスケープする
func renderCompletedEmail(shopName string, order model.Order, lines []ReceiptLine) (string, error) {
	view := completedView{
		ShopName: shopName,
		OrderID:  order.ID,
		Lines:    make([]completedLine, 0, len(lines)),
		Total:    order.TotalPrice.StringFixed(2),
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, completedLine{
			Name:      l.Name,
			Quantity:  l.Item.Quantity.String(),
			UnitPrice: l.Item.UnitPrice.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := completedTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
