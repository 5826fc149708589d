package invoice

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/config"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/pricing"
)

//go:embed templates/invoice.html
var templateFS embed.FS

const dateLayout = "02 Jan 2006"

// ItemView is one rendered invoice row.
type ItemView struct {
	Name      string
	Variant   string
	UnitPrice string
	Quantity  int
	Total     int
}

// View is the data handed to the invoice template.
type View struct {
	BusinessName     string
	BusinessSubtitle string
	BusinessPhone    string
	BusinessEmail    string
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  string
	InvoiceNumber    string
	InvoiceDate      string
	OrderDate        string
	Items            []ItemView
	Subtotal         int
	ShippingCharges  int
	DiscountAmount   int
	Total            int
}

// Renderer turns orders into invoice PDFs via headless Chrome.
type Renderer struct {
	tmpl       *template.Template
	chromePath string
	timeout    time.Duration
}

// NewRenderer parses the embedded template and validates the config.
func NewRenderer(cfg config.InvoiceConfig) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("parsing invoice template: %w", err)
	}
	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Renderer{
		tmpl:       tmpl,
		chromePath: cfg.ChromePath,
		timeout:    timeout,
	}, nil
}

// BuildView assembles the template data. Custom invoice and order dates
// override the creation timestamp when the admin has set them.
func BuildView(order *models.Order, settings *models.InvoiceSetting) (*View, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}

	view := &View{
		BusinessName:    "Bakehouse",
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		InvoiceNumber:   shortID(order.ID),
		InvoiceDate:     pickDate(order.CustomInvoiceDate, order.CreatedAt),
		OrderDate:       pickDate(order.CustomOrderDate, order.CreatedAt),
		Subtotal:        order.Subtotal,
		ShippingCharges: pricing.RoundPrice(order.ShippingCharges),
		DiscountAmount:  pricing.RoundPrice(order.DiscountAmount),
		Total:           order.Total,
	}
	if settings != nil {
		if settings.BusinessName != "" {
			view.BusinessName = settings.BusinessName
		}
		view.BusinessSubtitle = settings.BusinessSubtitle
		view.BusinessPhone = settings.Phone
		view.BusinessEmail = settings.Email
	}

	for _, item := range order.Items {
		view.Items = append(view.Items, ItemView{
			Name:      item.ProductName,
			Variant:   variantLabel(item.Weight, item.WeightUnit),
			UnitPrice: trimFloat(item.ProductPrice),
			Quantity:  item.Quantity,
			Total:     item.Total,
		})
	}
	return view, nil
}

// RenderHTML renders the invoice markup without touching Chrome.
func (r *Renderer) RenderHTML(view *View) (string, error) {
	if view == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invoice view required")
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("executing invoice template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the invoice and prints it through headless
// Chrome. The HTML travels as a data URL so no render endpoint is
// needed.
func (r *Renderer) GeneratePDF(ctx context.Context, order *models.Order, settings *models.InvoiceSetting) ([]byte, error) {
	view, err := BuildView(order, settings)
	if err != nil {
		return nil, err
	}
	html, err := r.RenderHTML(view)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	var pdf []byte
	err = chromedp.Run(chromeCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "printing invoice pdf")
	}
	return pdf, nil
}

// Filename derives the download name from the customer and order.
func Filename(customerName string, orderID uuid.UUID) string {
	return sanitizeName(customerName) + "-invoice-" + shortID(orderID) + ".pdf"
}

func sanitizeName(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		return "customer"
	}
	return out
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func pickDate(custom *time.Time, fallback time.Time) string {
	if custom != nil {
		return custom.Format(dateLayout)
	}
	return fallback.Format(dateLayout)
}

func variantLabel(weight *float64, unit *string) string {
	if weight == nil || unit == nil {
		return ""
	}
	return trimFloat(*weight) + " " + *unit
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
