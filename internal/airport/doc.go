// Package airport runs the platform wireless scanning utility and parses its
// column-oriented output into station records.
//
// The utility prints one line per base station:
//
//	                            SSID BSSID             RSSI CHANNEL HT CC SECURITY (auth/unicast/group)
//	                    MySchoolWifi aa:bb:cc:dd:ee:ff -52  6       Y  US WPA2(PSK/AES/AES)
//
// The SSID column is a fixed 32 characters wide because network names may
// contain spaces. The remaining columns are split on whitespace.
//
// Each Scan call spawns one process and waits for it to exit. A failed or
// empty scan yields no stations; malformed lines are skipped and returned as
// warnings so the caller can log them.
package airport
