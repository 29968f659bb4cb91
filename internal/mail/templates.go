package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	VerificationSubject = "🎵 Your Song Reaktor Verification Code"
	OrderSubject        = "✅ Your Song Reaktor Order #"
	LoginCodeSubject    = "🎵 Your Song Reaktor Login Code"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<p>Your <b>Song Reaktor</b> verification code is:</p>
<h2 style="color:#4CAF50;">{{.Code}}</h2>
<p>This code will expire in 10 minutes.</p>
<br>
<p>– The Song Reaktor Team</p>
`))

var orderTmpl = template.Must(template.New("order").Parse(`
<p>Thanks for your purchase!</p>
<p>Your <b>Order Number</b> is:</p>
<h2 style="color:#4CAF50;">{{.OrderNumber}}</h2>
<p>Enter this number in the app to upload your song.</p>
<br>
<p>– The Song Reaktor Team</p>
`))

var loginCodeTmpl = template.Must(template.New("login").Parse(`
<body style="font-family: Arial, sans-serif; background-color: #111; color: #eee; text-align: center; padding: 40px;">
  <h2>🎧 Welcome to Song Reaktor, {{.Name}} 🎧</h2>
  <p>Your 6-digit verification code is:</p>
  <h1 style="font-size: 36px; letter-spacing: 4px;">{{.Code}}</h1>
  <p>This code will expire shortly. Enter it in the app to proceed.</p>
</body>
`))

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// VerificationBody renders the email carrying a device verification code.
func VerificationBody(code string) (string, error) {
	return render(verificationTmpl, struct{ Code string }{code})
}

// OrderBody renders the order confirmation email.
func OrderBody(orderNumber string) (string, error) {
	return render(orderTmpl, struct{ OrderNumber string }{orderNumber})
}

// LoginCodeBody renders the login code email.
func LoginCodeBody(name, code string) (string, error) {
	return render(loginCodeTmpl, struct{ Name, Code string }{name, code})
}
