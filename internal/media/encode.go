package media

import (
	"io"

	"github.com/cloudwego/base64x"
	"github.com/kdduha/reels-caption/internal/models"
)

// EncodeFile reads the whole file and returns its standard base64 body.
func EncodeFile(file models.MediaFile) (string, error) {
	data, err := readAll(file)
	if err != nil {
		return "", err
	}
	return base64x.StdEncoding.EncodeToString(data), nil
}

// EncodePayload is EncodeFile for images sent as-is under their declared type.
func EncodePayload(file models.MediaFile) (models.EncodedPayload, error) {
	data, err := EncodeFile(file)
	if err != nil {
		return models.EncodedPayload{}, err
	}
	return models.EncodedPayload{Data: data, MimeType: file.MimeType}, nil
}

func readAll(file models.MediaFile) ([]byte, error) {
	if file.Content == nil {
		return nil, models.NewError(models.KindMediaRead, nil, "failed to read %q: no content", file.Name)
	}
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, models.NewError(models.KindMediaRead, err, "failed to read %q", file.Name)
	}
	return data, nil
}
