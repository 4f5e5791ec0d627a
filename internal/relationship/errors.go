package relationship

import (
	"fmt"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/models"

	"github.com/google/uuid"
)

// RequestNotFoundError reports that no pending request from -> to of the
// given kind exists.
type RequestNotFoundError struct {
	From, To uuid.UUID
	Kind     models.Kind
}

func (e *RequestNotFoundError) Error() string {
	return fmt.Sprintf("%s request from %s to %s does not exist", e.Kind, e.From, e.To)
}

func (e *RequestNotFoundError) Is(target error) bool { return target == apperr.ErrNotFound }

// RelationshipNotFoundError reports that the pair holds no relationship of the kind.
type RelationshipNotFoundError struct {
	User1, User2 uuid.UUID
	Kind         models.Kind
}

func (e *RelationshipNotFoundError) Error() string {
	return fmt.Sprintf("%s relationship between %s and %s does not exist", e.Kind, e.User1, e.User2)
}

func (e *RelationshipNotFoundError) Is(target error) bool { return target == apperr.ErrNotFound }

// AlreadyRelatedError reports that the pair already holds a relationship of the kind.
type AlreadyRelatedError struct {
	User1, User2 uuid.UUID
	Kind         models.Kind
}

func (e *AlreadyRelatedError) Error() string {
	return fmt.Sprintf("%s and %s are already in a %s relationship", e.User1, e.User2, e.Kind)
}

func (e *AlreadyRelatedError) Is(target error) bool { return target == apperr.ErrNotAllowed }

// RequestAlreadyExistsError reports a pending request between the pair, in
// either direction.
type RequestAlreadyExistsError struct {
	User1, User2 uuid.UUID
	Kind         models.Kind
}

func (e *RequestAlreadyExistsError) Error() string {
	return fmt.Sprintf("%s request between %s and %s already exists", e.Kind, e.User1, e.User2)
}

func (e *RequestAlreadyExistsError) Is(target error) bool { return target == apperr.ErrNotAllowed }

// PartnerRequiresFriendshipError reports a partner request between users who
// are not friends.
type PartnerRequiresFriendshipError struct {
	User1, User2 uuid.UUID
}

func (e *PartnerRequiresFriendshipError) Error() string {
	return fmt.Sprintf("cannot request %s relationship unless %s and %s are friends", models.KindPartner, e.User1, e.User2)
}

func (e *PartnerRequiresFriendshipError) Is(target error) bool { return target == apperr.ErrNotAllowed }

// SelfRelationshipNotAllowedError reports a request addressed to its sender.
type SelfRelationshipNotAllowedError struct {
	User uuid.UUID
}

func (e *SelfRelationshipNotAllowedError) Error() string {
	return fmt.Sprintf("%s cannot enter a relationship with themselves", e.User)
}

func (e *SelfRelationshipNotAllowedError) Is(target error) bool { return target == apperr.ErrNotAllowed }
