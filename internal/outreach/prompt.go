package outreach

import (
	"fmt"
	"strings"
)

type ContentType string

const (
	ContentEmail   ContentType = "email"
	ContentMessage ContentType = "message"
)

// ParseContentType maps the request selector. Only "email" selects the email
// template; every other value falls back to the short message.
func ParseContentType(value string) ContentType {
	if value == string(ContentEmail) {
		return ContentEmail
	}
	return ContentMessage
}

// OutputField is the record key that receives generated text.
func (c ContentType) OutputField() string {
	if c == ContentEmail {
		return FieldGeneratedEmail
	}
	return FieldGeneratedMessage
}

// Record keys understood by the generator.
const (
	FieldBusinessName        = "Business_Name"
	FieldBusinessDescription = "Business_Description"
	FieldAddressRegion       = "Address/Region"
	FieldSenderRole          = "sender_role"
	FieldDemoSite            = "demo_site"

	FieldGeneratedEmail   = "Generated_Cold_Email"
	FieldGeneratedMessage = "Generated_Cold_Message"
	FieldGenerationError  = "generation_error"
)

const (
	placeholderName        = "the business"
	placeholderDescription = "a local business"
	placeholderRegion      = "their area"
)

// PromptInput is everything a prompt is templated with.
type PromptInput struct {
	BusinessName        string
	BusinessDescription string
	AddressRegion       string
	SenderRole          string
	DemoSite            string
}

func (in PromptInput) withPlaceholders() PromptInput {
	in.BusinessName = orDefault(in.BusinessName, placeholderName)
	in.BusinessDescription = orDefault(in.BusinessDescription, placeholderDescription)
	in.AddressRegion = orDefault(in.AddressRegion, placeholderRegion)
	in.SenderRole = orDefault(in.SenderRole, "a web developer")
	in.DemoSite = strings.TrimSpace(in.DemoSite)
	return in
}

// BuildPrompt renders the instruction sent to the model. Word limits are
// directives for the model only.
func BuildPrompt(ct ContentType, in PromptInput) string {
	in = in.withPlaceholders()

	var b strings.Builder
	if ct == ContentEmail {
		fmt.Fprintf(&b, "You write cold outreach emails for %s.\n", in.SenderRole)
		b.WriteString("Write a personalized cold email that encourages the business below to build a new website or redesign its current one, and shows concretely how that would help it win more customers.\n\n")
		writeBusiness(&b, in)
		b.WriteString("\nRequirements:\n")
		b.WriteString("- First line: \"Subject: \" followed by a short, specific subject line.\n")
		b.WriteString("- Then exactly two short paragraphs. The first shows you understand their business and location. The second explains the benefit of a better website and ends with a low-pressure call to action.\n")
		b.WriteString("- Keep the email body under 90 words.\n")
		b.WriteString("- Tone: professional but conversational and human. No buzzwords, no placeholders in square brackets.\n")
		if in.DemoSite != "" {
			fmt.Fprintf(&b, "- Mention this example of previous work once, naturally: %s\n", in.DemoSite)
		}
		fmt.Fprintf(&b, "- End with a short signature that names the sender as %s.\n", in.SenderRole)
		b.WriteString("\nReturn only the email.")
		return b.String()
	}

	fmt.Fprintf(&b, "You are %s reaching out to a business on LinkedIn or WhatsApp.\n", in.SenderRole)
	b.WriteString("Write a short personalized message suggesting a new or redesigned website and one concrete benefit it would bring them.\n\n")
	writeBusiness(&b, in)
	b.WriteString("\nRequirements:\n")
	b.WriteString("- Keep it under 70 words, two or three sentences.\n")
	b.WriteString("- Friendly and conversational. No subject line, no signature block, no placeholders in square brackets.\n")
	if in.DemoSite != "" {
		fmt.Fprintf(&b, "- You may point to this example of previous work: %s\n", in.DemoSite)
	}
	b.WriteString("\nReturn only the message.")
	return b.String()
}

func writeBusiness(b *strings.Builder, in PromptInput) {
	fmt.Fprintf(b, "Business Name: %s\n", in.BusinessName)
	fmt.Fprintf(b, "Business Description: %s\n", in.BusinessDescription)
	fmt.Fprintf(b, "Address/Region: %s\n", in.AddressRegion)
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
