package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// TableQRCode renders the QR code printed on each table. Scanning it opens
// the menu with the table number filled in.
type TableQRCode struct {
	BaseURL string
	Size    int
}

func NewTableQRCode(baseURL string) *TableQRCode {
	return &TableQRCode{BaseURL: baseURL, Size: 256}
}

func (g *TableQRCode) URL(tableNo int) string {
	return fmt.Sprintf("%s/?table=%d", g.BaseURL, tableNo)
}

func (g *TableQRCode) Generate(tableNo int) ([]byte, error) {
	if tableNo < 1 {
		return nil, invalid("table_no", "must be at least 1")
	}
	return qrcode.Encode(g.URL(tableNo), qrcode.Medium, g.Size)
}
