package services

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email template names stored on outbox rows.
const (
	TemplateOrderConfirmation      = "order_confirmation"
	TemplateAdminNewOrder          = "admin_new_order"
	TemplateCustomerWelcome        = "customer_welcome"
	TemplatePaymentConfirmed       = "payment_confirmed"
	TemplateBarberAssigned         = "barber_assigned"
	TemplateCustomerBarberAssigned = "customer_barber_assigned"
	TemplateJobAccepted            = "job_accepted"
	TemplateJobOnTheWay            = "job_on_the_way"
	TemplateJobArrived             = "job_arrived"
	TemplateJobCompleted           = "job_completed"
	TemplateAdminJobDeclined       = "admin_job_declined"
	TemplateOrderCancelled         = "order_cancelled"
	TemplateTestEmail              = "test_email"
)

const emailLayout = `{{define "layout"}}<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<div style="max-width:600px;margin:0 auto;padding:24px">
{{template "content" .}}
<p style="color:#888;font-size:12px">SharpFade Barber Booking</p>
</div></body></html>{{end}}`

var emailBodies = map[string]string{
	TemplateOrderConfirmation: `<h2>Thanks for your booking, {{.customerName}}!</h2>
<p>Your order <strong>{{.orderNumber}}</strong> has been received.</p>
<p>Total: {{.totalAmount}}<br>Payment status: {{.paymentStatus}}</p>
<ul>{{range .items}}<li>{{.title}} x {{.quantity}}</li>{{end}}</ul>`,
	TemplateAdminNewOrder: `<h2>New order {{.orderNumber}}</h2>
<p>{{.customerName}} ({{.customerEmail}}, {{.customerPhone}})</p>
<p>{{.city}} / {{.location}}</p>
<p>Total: {{.totalAmount}}, payment {{.paymentStatus}}</p>`,
	TemplateCustomerWelcome: `<h2>Welcome, {{.customerName}}</h2>
<p>We created an account for you so you can follow your bookings.</p>
<p><a href="{{.resetUrl}}">Set your password</a>. The link is valid for 7 days.</p>`,
	TemplatePaymentConfirmed: `<h2>Payment received</h2>
<p>We have confirmed payment for order <strong>{{.orderNumber}}</strong>.</p>`,
	TemplateBarberAssigned: `<h2>New job assigned</h2>
<p>Order <strong>{{.orderNumber}}</strong> for {{.customerName}} in {{.city}} ({{.location}}).</p>
<p>Please accept or decline it from your dashboard.</p>`,
	TemplateCustomerBarberAssigned: `<h2>Your barber has been assigned</h2>
<p>{{.barberName}} will handle order <strong>{{.orderNumber}}</strong>.</p>`,
	TemplateJobAccepted: `<h2>Your booking is confirmed</h2>
<p>{{.barberName}} accepted order <strong>{{.orderNumber}}</strong>.</p>`,
	TemplateJobOnTheWay: `<h2>Your barber is on the way</h2>
<p>{{.barberName}} is heading to {{.location}} for order <strong>{{.orderNumber}}</strong>.</p>`,
	TemplateJobArrived: `<h2>Your barber has arrived</h2>
<p>{{.barberName}} has arrived for order <strong>{{.orderNumber}}</strong>.</p>`,
	TemplateJobCompleted: `<h2>All done!</h2>
<p>Order <strong>{{.orderNumber}}</strong> is complete. We would love a review of {{.barberName}}.</p>`,
	TemplateAdminJobDeclined: `<h2>Job declined</h2>
<p>{{.barberName}} declined order <strong>{{.orderNumber}}</strong>.</p>
<p>Reason: {{.reason}}</p><p>The order is open for reassignment.</p>`,
	TemplateOrderCancelled: `<h2>Order cancelled</h2>
<p>Order <strong>{{.orderNumber}}</strong> has been cancelled.</p>`,
	TemplateTestEmail: `<h2>Test email</h2><p>SMTP delivery is working. Sent at {{.sentAt}}.</p>`,
}

// EmailRenderer turns outbox payloads into HTML bodies.
type EmailRenderer struct {
	templates map[string]*template.Template
}

// NewEmailRenderer parses every known template.
func NewEmailRenderer() (*EmailRenderer, error) {
	r := &EmailRenderer{templates: make(map[string]*template.Template, len(emailBodies))}
	for name, body := range emailBodies {
		tmpl, err := template.New(name).Option("missingkey=zero").Parse(emailLayout)
		if err != nil {
			return nil, fmt.Errorf("parse layout for %s: %w", name, err)
		}
		if _, err := tmpl.New("content").Parse(body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// MustEmailRenderer is NewEmailRenderer for static templates.
func MustEmailRenderer() *EmailRenderer {
	r, err := NewEmailRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes template name with data.
func (r *EmailRenderer) Render(name string, data map[string]interface{}) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Has reports whether name is a known template.
func (r *EmailRenderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
