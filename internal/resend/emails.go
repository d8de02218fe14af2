package resend

import (
	"fmt"
	"strings"
)

// Email templates for the three customer touchpoints: order confirmation,
// sample-download welcome, and finished-book delivery.

func OrderConfirmationEmail(orderID, tier string, imageCount int) (subject, html string) {
	subject = "Your Coloring Book Order Confirmed!"
	html = fmt.Sprintf(`
		<h2>Thank you for your order!</h2>
		<p>Your coloring book is being created and will be ready shortly.</p>

		<h3>Order Details:</h3>
		<ul>
			<li>Order ID: %s</li>
			<li>Plan: %s</li>
			<li>Images: %d photos</li>
			<li>Status: Processing</li>
		</ul>

		<p>You'll receive another email with your download link once your coloring book is ready (usually within 10 minutes).</p>

		<p>Questions? Reply to this email and we'll help you out!</p>

		<p>Happy coloring!<br>
		The Blank Space Team</p>
	`, orderID, titleCase(tier), imageCount)
	return subject, html
}

func WelcomeEmail(appURL string) (subject, html string) {
	subject = "Welcome to Blank Space! Your Sample Book is Ready"
	html = fmt.Sprintf(`
		<h2>Welcome to Blank Space!</h2>
		<p>Thank you for downloading our sample coloring book. We hope you love creating personalized coloring books from your photos!</p>

		<h3>Here are some tips for the best results:</h3>
		<ul>
			<li>Use high-contrast photos with clear subjects</li>
			<li>Avoid overly complex or busy backgrounds</li>
			<li>Portrait and landscape photos work equally well</li>
			<li>Higher resolution photos create better line art</li>
		</ul>

		<p>Ready to create your first coloring book? <a href="%s">Get started here</a></p>

		<p>Happy coloring!<br>
		The Blank Space Team</p>
	`, appURL)
	return subject, html
}

func BookReadyEmail(orderID, downloadURL string) (subject, html string) {
	subject = "Your Coloring Book is Ready!"
	html = fmt.Sprintf(`
		<h2>Your coloring book is ready!</h2>
		<p>Order %s has finished processing. Download your pages below:</p>

		<p><a href="%s">Download your coloring book</a></p>

		<p>The link points to a ZIP archive with one printable page per photo.</p>

		<p>Questions? Reply to this email and we'll help you out!</p>

		<p>Happy coloring!<br>
		The Blank Space Team</p>
	`, orderID, downloadURL)
	return subject, html
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
