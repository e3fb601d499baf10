package common

// Speeds here are in km/h, the unit activity profiles are written in.

const SpeedOfFlyingMinKmh = 200.0
const SpeedOfDrivingMinKmh = 90.0

// SpeedOfDrivingLongKmh is the speed above which a segment longer than
// DistanceOfDrivingLongKm is considered driving.
const SpeedOfDrivingLongKmh = 50.0
const DistanceOfDrivingLongKm = 2.0

// SpeedOfCyclingMaxKmh caps a substituted cycling guess; anything faster is a car.
const SpeedOfCyclingMaxKmh = 20.0

// DistanceOfTooFastKm is the minimum distance before a too-fast segment
// is relabeled with the profile's fast alternative.
const DistanceOfTooFastKm = 3.0
