package unit

// Physical constants (SI).
const (
	// SpeedOfLight in m/s.
	SpeedOfLight = 2.99792458e8

	// SpeedOfLightKms in km/s, for radial velocities.
	SpeedOfLightKms = 2.99792458e5

	// Planck constant in J s.
	Planck = 6.62607015e-34

	// ElectronVolt in J.
	ElectronVolt = 1.602176634e-19

	// ABReferenceJy is the AB magnitude zero-point flux in Jansky.
	ABReferenceJy = 3631.0
)
