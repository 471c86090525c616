package notification

import (
	"bytes"
	"fmt"
	"strconv"

	"paintshop/internal/domain/model"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// 明細1行（商品名は呼び出し側で解決する）
type ReceiptLine struct {
	ProductID int64
	Name      string
	Item      model.OrderItem
}

// PDFReceipt は注文の領収書PDFを作る
type PDFReceipt struct {
	shopName string
}

// DI
func NewPDFReceipt(shopName string) *PDFReceipt {
	return &PDFReceipt{shopName: shopName}
}

// namesに無い商品は「Product #id」
func (r *PDFReceipt) Render(order model.Order, items []model.OrderItem, names map[int64]string) ([]byte, error) {
	return r.render(order, receiptLines(items, names))
}

func receiptLines(items []model.OrderItem, names map[int64]string) []ReceiptLine {
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		name, ok := names[it.ProductID]
		if !ok || name == "" {
			name = "Product #" + strconv.FormatInt(it.ProductID, 10)
		}
		lines = append(lines, ReceiptLine{ProductID: it.ProductID, Name: name, Item: it})
	}
	return lines
}

func (r *PDFReceipt) render(order model.Order, lines []ReceiptLine) ([]byte, error) {
	//注文番号をQRに入れる（店頭での照合用）
	qrPNG, err := qrcode.Encode(fmt.Sprintf("paintshop:order:%d", order.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(r.shopName+" - Receipt"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order #%d", order.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date: "+order.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status: "+string(order.Status))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 12, 35, 35, false, imageOpts, 0, "")

	// 明細表
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Quantity", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, l := range lines {
		subtotal := l.Item.Quantity.Mul(l.Item.UnitPrice)
		pdf.CellFormat(90, 7, tr(l.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, l.Item.Quantity.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, l.Item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 9, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, order.TotalPrice.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
