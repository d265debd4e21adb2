package authority

import dserrors "github.com/systmms/secretcore/internal/errors"

func errEncryptionMismatch(secretID, trustedSecretID string) error {
	return dserrors.New(dserrors.KindEncryptionMismatch, component,
		"secret "+secretID+" and trusted secret "+trustedSecretID+" have mismatched encryption")
}
