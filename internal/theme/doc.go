// Package theme loads the CSS used to style desktop toasts.
//
// Themes are resolved from the user's themes directory first
// (~/.config/toasty/themes/<name>.css) and then from the bundled set, so a
// user file can override a bundled theme of the same name. @import statements
// are inlined, falling back to bundled partials such as "_base.css".
package theme
