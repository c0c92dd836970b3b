package nvml

// SystemGetDriverVersion returns the version of the installed kernel
// driver.
func SystemGetDriverVersion() (string, Return) {
	version, err := backend.DriverVersion()
	return version, toReturn(err)
}

// SystemGetNVMLVersion returns the version of the management library. On MT
// hardware this is the MTML library version string.
func SystemGetNVMLVersion() (string, Return) {
	version, err := backend.LibraryVersion()
	return version, toReturn(err)
}
