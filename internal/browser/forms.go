package browser

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/match"
)

// Control binds one answerable form question to the page elements that
// carry it. DescribeControl builds it from a question group; Apply
// writes a resolved action back into the form.
type Control struct {
	Descriptor domain.ControlDescriptor

	field    playwright.Locator            // fill target for text roles
	selectEl playwright.Locator            // select element backing the choices
	radios   map[string]playwright.Locator // choice label -> radio input
}

// DescribeControl inspects a form question group and classifies the
// control inside it. The group is expected to hold one label and one
// input, textarea, select, or radio cluster.
func DescribeControl(group playwright.Locator) (*Control, error) {
	label := firstText(group.Locator("label"))
	if label == "" {
		label = firstText(group.Locator("legend"))
	}

	if sel := group.Locator("select"); present(sel) {
		return describeSelect(sel.First(), label)
	}

	if radios := group.Locator(`input[type="radio"]`); present(radios) {
		return describeRadios(group, radios, label)
	}

	if ta := group.Locator("textarea"); present(ta) {
		return &Control{
			Descriptor: domain.ControlDescriptor{Role: domain.RoleTextArea, Label: label},
			field:      ta.First(),
		}, nil
	}

	in := group.Locator(`input:not([type="hidden"]):not([type="submit"]):not([type="button"]):not([type="file"]):not([type="checkbox"])`)
	if present(in) {
		return &Control{
			Descriptor: domain.ControlDescriptor{Role: domain.RoleText, Label: label},
			field:      in.First(),
		}, nil
	}

	return nil, fmt.Errorf("no answerable control in question group")
}

func describeSelect(sel playwright.Locator, label string) (*Control, error) {
	options := sel.Locator("option")
	count, err := options.Count()
	if err != nil {
		return nil, fmt.Errorf("counting options: %w", err)
	}

	choices := make([]domain.Choice, 0, count)
	for i := 0; i < count; i++ {
		text, err := options.Nth(i).TextContent()
		if err != nil {
			continue
		}
		choices = append(choices, domain.Choice{Label: strings.TrimSpace(text)})
	}

	return &Control{
		Descriptor: domain.ControlDescriptor{
			Role:    domain.RoleSingleChoice,
			Label:   label,
			Choices: choices,
		},
		selectEl: sel,
	}, nil
}

func describeRadios(group, radios playwright.Locator, label string) (*Control, error) {
	count, err := radios.Count()
	if err != nil {
		return nil, fmt.Errorf("counting radios: %w", err)
	}

	choices := make([]domain.Choice, 0, count)
	byLabel := make(map[string]playwright.Locator, count)
	for i := 0; i < count; i++ {
		radio := radios.Nth(i)
		text := radioLabel(group, radio)
		if text == "" {
			continue
		}
		choices = append(choices, domain.Choice{Label: text})
		byLabel[text] = radio
	}

	return &Control{
		Descriptor: domain.ControlDescriptor{
			Role:    domain.RoleSingleChoice,
			Label:   label,
			Choices: choices,
		},
		radios: byLabel,
	}, nil
}

// radioLabel finds the display text for one radio input, preferring
// its associated label element over the value attribute.
func radioLabel(group, radio playwright.Locator) string {
	if id, err := radio.GetAttribute("id"); err == nil && id != "" {
		label := group.Locator(`label[for="` + id + `"]`)
		if text := firstText(label); text != "" {
			return text
		}
	}
	if value, err := radio.GetAttribute("value"); err == nil {
		return strings.TrimSpace(value)
	}
	return ""
}

// Apply writes a resolved action into the control.
func (c *Control) Apply(s *Session, action domain.Action) error {
	switch action.Kind {
	case domain.ActionSkip:
		return nil

	case domain.ActionTypeText:
		if c.field == nil {
			return fmt.Errorf("control %q has no text field", c.Descriptor.Label)
		}
		if err := c.field.Fill(action.Value); err != nil {
			return fmt.Errorf("filling %q: %w", c.Descriptor.Label, err)
		}
		return nil

	case domain.ActionSelectChoice:
		if c.selectEl != nil {
			labels := []string{action.Value}
			if _, err := c.selectEl.SelectOption(playwright.SelectOptionValues{Labels: &labels}); err != nil {
				return fmt.Errorf("selecting %q for %q: %w", action.Value, c.Descriptor.Label, err)
			}
			return nil
		}
		if radio, ok := c.radios[action.Value]; ok {
			return s.ClickLocator(radio)
		}
		return fmt.Errorf("choice %q not present on %q", action.Value, c.Descriptor.Label)
	}

	return fmt.Errorf("unsupported action kind %q", action.Kind)
}

// FillFuzzy locates the input whose placeholder best matches the
// target text and replaces its value. Site markup drifts; the fuzzy
// match keeps search boxes findable after a rename like "Search jobs"
// to "Search job titles".
func (s *Session) FillFuzzy(target, value string) error {
	inputs := s.page.Locator("input")
	count, err := inputs.Count()
	if err != nil {
		return fmt.Errorf("listing inputs: %w", err)
	}

	labels := make([]string, count)
	for i := 0; i < count; i++ {
		in := inputs.Nth(i)
		if placeholder, err := in.GetAttribute("placeholder"); err == nil && placeholder != "" {
			labels[i] = placeholder
			continue
		}
		if aria, err := in.GetAttribute("aria-label"); err == nil {
			labels[i] = aria
		}
	}

	idx, err := match.Locate(labels, target, match.DefaultCutoff)
	if err != nil {
		return err
	}

	in := inputs.Nth(idx)
	// Clear through the DOM first: combobox inputs restore stale text
	// when cleared with keystrokes alone.
	if _, err := in.Evaluate("el => el.value = ''", nil); err != nil {
		return fmt.Errorf("clearing input: %w", err)
	}
	if err := in.Fill(value); err != nil {
		return fmt.Errorf("filling input: %w", err)
	}
	return nil
}

// PressFuzzy sends a key to the input whose placeholder best matches
// the target text.
func (s *Session) PressFuzzy(target, key string) error {
	inputs := s.page.Locator("input")
	count, err := inputs.Count()
	if err != nil {
		return fmt.Errorf("listing inputs: %w", err)
	}

	labels := make([]string, count)
	for i := 0; i < count; i++ {
		if placeholder, err := inputs.Nth(i).GetAttribute("placeholder"); err == nil {
			labels[i] = placeholder
		}
	}

	idx, err := match.Locate(labels, target, match.DefaultCutoff)
	if err != nil {
		return err
	}
	if err := inputs.Nth(idx).Press(key); err != nil {
		return fmt.Errorf("pressing %s: %w", key, err)
	}
	return nil
}

func present(loc playwright.Locator) bool {
	count, _ := loc.Count()
	return count > 0
}

func firstText(loc playwright.Locator) string {
	if !present(loc) {
		return ""
	}
	text, err := loc.First().TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
