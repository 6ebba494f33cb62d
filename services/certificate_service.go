package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/studydao/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const certificateFolder = "studydao_certificates"

//go:embed templates/badge_certificate.html
var certificateFS embed.FS

var certificateTmpl = template.Must(template.ParseFS(certificateFS, "templates/badge_certificate.html"))

var rarityAccent = map[models.Rarity]template.CSS{
	models.RarityCommon:    "#34d399",
	models.RarityRare:      "#a78bfa",
	models.RarityEpic:      "#f472b6",
	models.RarityLegendary: "#fbbf24",
}

type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type FileUploader interface {
	UploadPDF(ctx context.Context, pdf []byte, publicID string) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error
}

// CertificateIssuer renders a badge certificate, uploads it and emails the
// learner a link. The mailer is optional.
type CertificateIssuer struct {
	renderer PDFRenderer
	uploader FileUploader
	mailer   Mailer
	timeout  time.Duration
}

func NewCertificateIssuer(renderer PDFRenderer, uploader FileUploader, mailer Mailer) *CertificateIssuer {
	return &CertificateIssuer{renderer: renderer, uploader: uploader, mailer: mailer, timeout: 90 * time.Second}
}

type certificateData struct {
	LearnerName string
	BadgeName   string
	Requirement string
	Icon        string
	Rarity      string
	Accent      template.CSS
	EarnedOn    string
	Wallet      string
}

func RenderCertificateHTML(learner models.Learner, badge models.Badge, wallet string, earnedAt time.Time) (string, error) {
	accent, ok := rarityAccent[badge.Rarity]
	if !ok {
		accent = rarityAccent[models.RarityCommon]
	}
	data := certificateData{
		LearnerName: learner.DisplayName,
		BadgeName:   badge.Name,
		Requirement: badge.Requirement,
		Icon:        badge.Icon,
		Rarity:      badge.Rarity.String(),
		Accent:      accent,
		EarnedOn:    earnedAt.Format("January 2, 2006"),
		Wallet:      wallet,
	}

	var rendered bytes.Buffer
	if err := certificateTmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// Issue returns the uploaded certificate URL.
func (i *CertificateIssuer) Issue(ctx context.Context, learner models.Learner, badge models.Badge, wallet string) (string, error) {
	if i.renderer == nil || i.uploader == nil {
		return "", errors.New("certificate issuing is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	html, err := RenderCertificateHTML(learner, badge, wallet, time.Now())
	if err != nil {
		return "", fmt.Errorf("render certificate html: %w", err)
	}

	pdf, err := i.renderer.RenderPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("render certificate pdf: %w", err)
	}

	publicID := fmt.Sprintf("%s_%s_%s", learner.ID, badge.ID, uuid.NewString())
	certURL, err := i.uploader.UploadPDF(ctx, pdf, publicID)
	if err != nil {
		return "", fmt.Errorf("upload certificate: %w", err)
	}

	if i.mailer != nil {
		subject := fmt.Sprintf("%s You earned the %s badge", badge.Icon, badge.Name)
		body := fmt.Sprintf(`<p>Hi %s,</p><p>Congratulations on earning <strong>%s</strong>.</p><p><a href="%s">Download your certificate</a></p>`,
			template.HTMLEscapeString(learner.DisplayName), template.HTMLEscapeString(badge.Name), certURL)
		if err := i.mailer.Send(ctx, learner.Email, learner.DisplayName, subject, body); err != nil {
			log.Error().Err(err).Str("learner_id", learner.ID.String()).Msg("🔥 failed to email certificate")
		}
	}

	log.Info().Str("learner_id", learner.ID.String()).Str("badge", badge.ID).Msg("✅ badge certificate issued")
	return certURL, nil
}

// IssueAsync runs Issue in the background, detached from the request.
func (i *CertificateIssuer) IssueAsync(learner models.Learner, badge models.Badge, wallet string) {
	go func() {
		if _, err := i.Issue(context.Background(), learner, badge, wallet); err != nil {
			log.Error().Err(err).Str("learner_id", learner.ID.String()).Str("badge", badge.ID).Msg("🔥 failed to issue badge certificate")
		}
	}()
}

// ChromePDFRenderer prints HTML to PDF with a headless Chrome.
type ChromePDFRenderer struct{}

func (ChromePDFRenderer) RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) UploadPDF(ctx context.Context, pdf []byte, publicID string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(pdf), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       certificateFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}
