package pdf

import (
	"context"
	"errors"

	"github.com/Vovarama1992/pdf_tools/internal/domain"
)

const (
	msgLockFailed    = "Failed to lock PDF"
	msgUnlockFailed  = "Failed to unlock PDF"
	msgWrongPassword = "Incorrect password or decryption failed"
)

// Lock шифрует документ паролем. Уже зашифрованный вход не проверяется,
// pdfcpu в таком случае вернёт ошибку.
func (s *PDFService) Lock(ctx context.Context, data []byte, password string) (*Artifact, error) {
	out, err := s.engine.Encrypt(ctx, data, password)
	if err != nil {
		return nil, domain.CodecError(msgLockFailed, err)
	}
	return &Artifact{Bytes: out, FileName: "locked.pdf", MimeType: mimePDF}, nil
}

// Unlock снимает шифрование; незашифрованный документ просто пересобирается
func (s *PDFService) Unlock(ctx context.Context, data []byte, password string) (*Artifact, error) {
	encrypted, err := s.engine.Inspect(ctx, data)
	if err != nil {
		return nil, domain.CodecError(msgUnlockFailed, err)
	}

	var out []byte
	if encrypted {
		out, err = s.engine.Decrypt(ctx, data, password)
		if errors.Is(err, ErrWrongPassword) {
			return nil, domain.DecryptionError(msgWrongPassword, err)
		}
	} else {
		out, err = s.engine.Rewrite(ctx, data)
	}
	if err != nil {
		return nil, domain.CodecError(msgUnlockFailed, err)
	}

	return &Artifact{Bytes: out, FileName: "unlocked.pdf", MimeType: mimePDF}, nil
}
