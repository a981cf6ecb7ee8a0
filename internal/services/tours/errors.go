package tours

import "errors"

// ErrTourNotFound - no tour for the given id.
var ErrTourNotFound = errors.New("no tour found with that ID")

// ErrDuplicateName is returned when creating a tour whose name already exists.
var ErrDuplicateName = errors.New("duplicate field: tour name already in use")

// ErrCreateTour is returned when tour creation fails.
var ErrCreateTour = errors.New("failed to create tour")

// ErrListTours is returned when the tour query fails.
var ErrListTours = errors.New("failed to list tours")

// ErrUpdateTour is returned when a tour update fails.
var ErrUpdateTour = errors.New("failed to update tour")

// ErrDeleteTour is returned when a tour delete fails.
var ErrDeleteTour = errors.New("failed to delete tour")

// ErrTourStats is returned when the aggregation report fails.
var ErrTourStats = errors.New("failed to compute tour stats")

// ErrCreateToursRepo is returned when tours repository creation fails.
var ErrCreateToursRepo = errors.New("failed to create tours repository")
