// Package domain defines the wizard response data model: the per-campaign
// WizardState record, its meta block, the ordered per-step answer lists and
// the step numbering shared by the navigator, validators and serializer.
package domain
