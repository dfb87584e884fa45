// Package common contains shared constants, sentinel errors and small helpers
// used across NodeVault components.
package common

// AppDirName is the directory created under the user configuration dir to
// hold the auth record and the local database.
const AppDirName = "nodevault"
