// Package core wires forge's building blocks into the flows the commands
// run. A Workspace ties a loaded configuration to its paths, plugin cache
// and git source; Build and Validate run on top of it.
//
// # Build flow
//
//  1. Resolve every declared plugin into the cache, in declaration order.
//  2. Build the immutable render context from variables, the selected
//     environment overlay and the resolved plugins.
//  3. Render each task against the plugins' templates. The first declared
//     plugin providing a template wins.
//  4. Post-process rendered content with the generator detected from the
//     template name, when post-processing is enabled.
//  5. Write the results below the project root.
//
// Plugin failures either abort the build or are collected and exposed to
// templates as missing_plugins, depending on settings.on_plugin_error.
// A strict build writes nothing when any task fails.
package core
