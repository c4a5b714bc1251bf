package store

import (
	"context"
	"errors"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

// ProfileAPI is the server surface the profile store consumes.
type ProfileAPI interface {
	Me(ctx context.Context) (*domain.User, error)
	Update(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error)
}

// AssetUploader sends files to the asset host.
type AssetUploader interface {
	Upload(ctx context.Context, req upload.Request) upload.Result
}

// ProfileStore mirrors the signed-in user's profile record.
type ProfileStore struct {
	lifecycle
	api      ProfileAPI
	uploader AssetUploader
	user     *domain.User
}

// NewProfileStore creates an idle store. uploader may be nil when avatar
// changes are not needed.
func NewProfileStore(api ProfileAPI, uploader AssetUploader) *ProfileStore {
	s := &ProfileStore{api: api, uploader: uploader}
	s.init()
	return s
}

// Profile returns a copy of the mirrored profile.
func (s *ProfileStore) Profile() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Fetch loads the profile.
func (s *ProfileStore) Fetch(ctx context.Context) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	seq, err := s.beginFetch()
	if err != nil {
		return err
	}

	u, err := s.api.Me(ctx)
	return s.finishFetch(seq, err, func() { s.user = u })
}

// Update applies a partial update once the server has stored it.
func (s *ProfileStore) Update(ctx context.Context, upd domain.ProfileUpdate) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := s.beginMutation(nil); err != nil {
		return err
	}

	u, err := s.api.Update(ctx, upd)
	return s.endMutation(OpUpdate, err, func() { s.user = u }, nil)
}

// ChangeAvatar shows preview as the avatar right away, uploads the image and
// saves the hosted URL to the profile. Any failure puts the previous avatar back.
func (s *ProfileStore) ChangeAvatar(ctx context.Context, image []byte, filename, preview string) error {
	if s.uploader == nil {
		return errors.New("store: no uploader configured")
	}

	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	var prev *string
	err = s.beginMutation(func() {
		if s.user != nil {
			u := *s.user
			prev = u.AvatarURL
			u.AvatarURL = &preview
			s.user = &u
		}
	})
	if err != nil {
		return err
	}

	res := s.uploader.Upload(ctx, upload.Request{
		File:         image,
		Filename:     filename,
		Folder:       "resumeai/avatars",
		ResourceKind: upload.ResourceImage,
	})

	var u *domain.User
	if res.Success {
		u, err = s.api.Update(ctx, domain.ProfileUpdate{AvatarURL: &res.SecureURL})
	} else {
		err = errors.New(res.ErrorMessage)
	}

	return s.endMutation(OpAvatar, err,
		func() { s.user = u },
		func() {
			if s.user != nil && s.user.AvatarURL != nil && *s.user.AvatarURL == preview {
				u := *s.user
				u.AvatarURL = prev
				s.user = &u
			}
		},
	)
}
