package pinflow

import (
	"context"
	"fmt"
)

// EditPin sends the composite of pin id to the image model with
// instruction and stores the result as the pin's new composite. The upload
// link is cleared so the next upload pass republishes the pin.
func (m *Manager) EditPin(ctx context.Context, id, instruction string) (*Pin, error) {
	if err := ValidatePrompt(instruction); err != nil {
		return nil, err
	}

	pin, err := m.pins.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pin.HasFinal() {
		return nil, fmt.Errorf("%w: %s", ErrNoFinalImage, id)
	}

	edited, err := m.EditDataURI(ctx, pin.FinalImage, instruction)
	if err != nil {
		return nil, fmt.Errorf("edit %q: %w", pin.Keyword, err)
	}

	pin.FinalImage = edited
	pin.UploadLink = ""
	if err := m.pins.Update(ctx, pin); err != nil {
		return nil, err
	}

	m.logger.Info("pin edited", "keyword", pin.Keyword, "id", pin.ID)
	return pin, nil
}
