package application

import "expvar"

// Exposed under /debug/vars.
var (
	usersCreated   = expvar.NewInt("users_created")
	usersUpdated   = expvar.NewInt("users_updated")
	usersDeleted   = expvar.NewInt("users_deleted")
	imagesUploaded = expvar.NewInt("images_uploaded")
)
