package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/studydao/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct{ html string }

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.7"), nil
}

type fakeUploader struct {
	publicID string
	err      error
}

func (f *fakeUploader) UploadPDF(_ context.Context, pdf []byte, publicID string) (string, error) {
	f.publicID = publicID
	if f.err != nil {
		return "", f.err
	}
	return "https://res.cloudinary.com/demo/raw/upload/" + publicID, nil
}

type fakeMailer struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(_ context.Context, toEmail, _, subject, html string) error {
	f.to, f.subject, f.body = toEmail, subject, html
	return nil
}

func certificateFixture() (models.Learner, models.Badge) {
	badge, _ := FindBadge(BadgeDAOFounder)
	return models.Learner{ID: uuid.New(), DisplayName: "Ada <Lovelace>", Email: "ada@example.com"}, badge
}

func TestRenderCertificateHTML(t *testing.T) {
	learner, badge := certificateFixture()
	html, err := RenderCertificateHTML(learner, badge, testWallet, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, html, "DAO Founder")
	assert.Contains(t, html, "March 4, 2026")
	assert.Contains(t, html, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, html, string(rarityAccent[models.RarityRare]))
}

func TestCertificateIssuer_Issue(t *testing.T) {
	learner, badge := certificateFixture()
	renderer, up, mail := &fakeRenderer{}, &fakeUploader{}, &fakeMailer{}

	url, err := NewCertificateIssuer(renderer, up, mail).Issue(context.Background(), learner, badge, testWallet)
	require.NoError(t, err)

	assert.Contains(t, url, learner.ID.String()+"_dao-founder_")
	assert.Contains(t, renderer.html, testWallet)
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Contains(t, mail.subject, "DAO Founder")
	assert.Contains(t, mail.body, url)
}

func TestCertificateIssuer_UploadFailure(t *testing.T) {
	learner, badge := certificateFixture()
	mail := &fakeMailer{}
	issuer := NewCertificateIssuer(&fakeRenderer{}, &fakeUploader{err: errors.New("quota")}, mail)

	_, err := issuer.Issue(context.Background(), learner, badge, testWallet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload certificate")
	assert.Empty(t, mail.to)
}
