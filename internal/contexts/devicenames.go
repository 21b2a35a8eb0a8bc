package contexts

import "strings"

// appleDevices maps Apple hardware identifiers to marketing names
var appleDevices = map[string]string{
	"iPhone10,3": "iPhone X", "iPhone10,6": "iPhone X",
	"iPhone11,2": "iPhone XS", "iPhone11,4": "iPhone XS Max", "iPhone11,6": "iPhone XS Max",
	"iPhone11,8": "iPhone XR",
	"iPhone12,1": "iPhone 11", "iPhone12,3": "iPhone 11 Pro", "iPhone12,5": "iPhone 11 Pro Max",
	"iPhone12,8": "iPhone SE (2nd generation)",
	"iPhone13,1": "iPhone 12 mini", "iPhone13,2": "iPhone 12", "iPhone13,3": "iPhone 12 Pro",
	"iPhone13,4": "iPhone 12 Pro Max",
	"iPhone14,2": "iPhone 13 Pro", "iPhone14,3": "iPhone 13 Pro Max", "iPhone14,4": "iPhone 13 mini",
	"iPhone14,5": "iPhone 13", "iPhone14,6": "iPhone SE (3rd generation)",
	"iPhone14,7": "iPhone 14", "iPhone14,8": "iPhone 14 Plus",
	"iPhone15,2": "iPhone 14 Pro", "iPhone15,3": "iPhone 14 Pro Max",
	"iPhone15,4": "iPhone 15", "iPhone15,5": "iPhone 15 Plus",
	"iPhone16,1": "iPhone 15 Pro", "iPhone16,2": "iPhone 15 Pro Max",
	"iPhone17,1": "iPhone 16 Pro", "iPhone17,2": "iPhone 16 Pro Max",
	"iPhone17,3": "iPhone 16", "iPhone17,4": "iPhone 16 Plus",
	"iPad13,1": "iPad Air (4th generation)", "iPad13,2": "iPad Air (4th generation)",
	"iPad13,16": "iPad Air (5th generation)", "iPad13,17": "iPad Air (5th generation)",
	"iPad13,18": "iPad (10th generation)", "iPad13,19": "iPad (10th generation)",
	"iPad14,1": "iPad mini (6th generation)", "iPad14,2": "iPad mini (6th generation)",
	"Watch6,1": "Apple Watch Series 7 41mm", "Watch6,2": "Apple Watch Series 7 45mm",
	"AppleTV6,2": "Apple TV 4K", "AppleTV11,1": "Apple TV 4K (2nd generation)",
	"AppleTV14,1": "Apple TV 4K (3rd generation)",
	"MacBookPro18,3": "MacBook Pro (14-inch, 2021)", "MacBookPro18,4": "MacBook Pro (14-inch, 2021)",
	"Mac14,2": "MacBook Air (M2, 2022)", "Mac14,7": "MacBook Pro (13-inch, M2, 2022)",
	"x86_64": "iOS Simulator (x86_64)", "i386": "iOS Simulator (i386)", "arm64": "iOS Simulator (arm64)",
}

// DeviceName maps a device model identifier to a readable name. Unknown
// models come back unchanged; an empty model gives an empty name.
func DeviceName(model string) string {
	if model == "" {
		return ""
	}
	identifier, rest, _ := strings.Cut(model, " ")
	name, ok := appleDevices[identifier]
	if !ok {
		return model
	}
	return strings.TrimSpace(name + " " + rest)
}
